package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFormValidate(t *testing.T) {
	valid := RegisterForm{
		Username:       "alice",
		Email:          "alice@example.com",
		Password:       "secret",
		RepeatPassword: "secret",
	}

	testCases := map[string]struct {
		modify  func(f *RegisterForm)
		wantErr error
	}{
		"complete form": {
			modify: func(f *RegisterForm) {},
		},
		"missing username": {
			modify:  func(f *RegisterForm) { f.Username = "" },
			wantErr: ErrFormIncomplete,
		},
		"missing email": {
			modify:  func(f *RegisterForm) { f.Email = "" },
			wantErr: ErrFormIncomplete,
		},
		"passwords differ": {
			modify:  func(f *RegisterForm) { f.RepeatPassword = "other" },
			wantErr: ErrFormIncomplete,
		},
		"short username": {
			modify:  func(f *RegisterForm) { f.Username = "al" },
			wantErr: ErrInvalidField,
		},
		"bad email": {
			modify:  func(f *RegisterForm) { f.Email = "alice" },
			wantErr: ErrInvalidField,
		},
		"short password": {
			modify:  func(f *RegisterForm) { f.Password, f.RepeatPassword = "abc", "abc" },
			wantErr: ErrInvalidField,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			form := valid
			tc.modify(&form)
			err := form.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestRegisterFormRequest(t *testing.T) {
	form := RegisterForm{
		Username:       "alice",
		FirstName:      "Alice",
		Email:          "alice@example.com",
		Password:       "secret",
		RepeatPassword: "secret",
	}
	req, err := form.Request()
	require.Nil(t, err)
	assert.Equal(t, RegisterRequest{Username: "alice", FirstName: "Alice", Email: "alice@example.com", Password: "secret"}, *req)

	assert.True(t, form.RepeatPasswordValid())
	form.RepeatPassword = ""
	assert.True(t, form.RepeatPasswordValid())
	_, err = form.Request()
	assert.Equal(t, ErrFormIncomplete, err)
}
