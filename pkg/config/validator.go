package config

import (
	"reflect"
)

// IConfigValidator - Interface to be implemented for config validation
type IConfigValidator interface {
	ValidateCfg() error
}

// ValidateConfig - Validates the config
// Uses reflection to get the IConfigValidator interface on the config struct or
// struct variable and makes call to ValidateCfg method
func ValidateConfig(cfg interface{}) error {
	if cfg == nil {
		return nil
	}

	if objInterface, ok := cfg.(IConfigValidator); ok {
		err := objInterface.ValidateCfg()
		if err != nil {
			return err
		}
	}

	// If the parameter is of struct pointer, use indirection to get the
	// real value object
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = reflect.Indirect(v)
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	return validateFields(v)
}

func validateFields(v reflect.Value) error {
	// Look for Validate method on struct properties and invoke it
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).CanInterface() {
			fieldInterface := v.Field(i).Interface()
			if objInterface, ok := fieldInterface.(IConfigValidator); ok {
				err := ValidateConfig(objInterface)
				if err != nil {
					return err
				}
			}
		}
	}

	return nil
}
