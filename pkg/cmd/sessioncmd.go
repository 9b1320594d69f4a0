package cmd

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pqd/pqd-sdk/pkg/session"
)

func (c *pqdRootCommand) newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for the following commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment()
			if err != nil {
				return err
			}
			identity, err := env.session.LoginWith(cmd.Context(), env.auth, username, password)
			if err != nil {
				return err
			}
			return c.output(cmd, env).message("Logged in as %s", identity.DisplayName())
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (c *pqdRootCommand) newRegisterCmd() *cobra.Command {
	form := session.RegisterForm{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment()
			if err != nil {
				return err
			}
			if env.session.State() == session.Authenticated {
				return c.output(cmd, env).message("Already logged in as %s", env.session.Get().DisplayName())
			}

			request, err := form.Request()
			if err != nil {
				return err
			}
			if err = env.auth.Register(cmd.Context(), *request); err != nil {
				return err
			}
			return c.output(cmd, env).message("Your account has been registered. You can now login to your account.")
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "Username, at least 3 characters")
	cmd.Flags().StringVar(&form.FirstName, "firstName", "", "First name")
	cmd.Flags().StringVar(&form.LastName, "lastName", "", "Last name")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password, at least 4 characters")
	cmd.Flags().StringVar(&form.RepeatPassword, "repeatPassword", "", "The password again")
	return cmd
}

func (c *pqdRootCommand) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment()
			if err != nil {
				return err
			}
			if err = env.session.Logout(); err != nil {
				return err
			}
			return c.output(cmd, env).message("Logged out")
		},
	}
}

// whoami - the identity without its token
type whoami struct {
	Username  string     `json:"username" yaml:"username"`
	UserID    int64      `json:"userId" yaml:"userId"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Email     string     `json:"email,omitempty" yaml:"email,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

func newWhoami(identity *session.Identity) whoami {
	w := whoami{
		Username: identity.Username,
		UserID:   identity.UserID,
		Email:    identity.Email,
	}
	if name := identity.DisplayName(); name != identity.Username {
		w.Name = name
	}
	if expires, err := identity.ExpiresAt(); err == nil && !expires.IsZero() {
		w.ExpiresAt = &expires
	}
	return w
}

func (c *pqdRootCommand) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, identity, err := c.authenticated()
			if err != nil {
				return err
			}

			view := newWhoami(identity)
			return c.output(cmd, env).print(view, func(w io.Writer) {
				row(w, "Username:", view.Username)
				row(w, "User id:", view.UserID)
				if view.Name != "" {
					row(w, "Name:", view.Name)
				}
				if view.Email != "" {
					row(w, "Email:", view.Email)
				}
				if view.ExpiresAt != nil {
					row(w, "Session expires:", view.ExpiresAt.Local().Format(time.RFC1123))
				}
			})
		},
	}
}
