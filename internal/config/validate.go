package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem with the resolved configuration
// at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs *multierror.Error

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		errs = multierror.Append(errs, errors.New("data_dir is required"))
	}
	if u := strings.TrimSpace(v.GetString("db_url")); u != "" {
		if err := checkDBURL(u); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if v.GetInt("render.max_depth") < 0 {
		errs = multierror.Append(errs, errors.New("render.max_depth must not be negative"))
	}
	if v.GetInt("render.workers") <= 0 {
		errs = multierror.Append(errs, errors.New("render.workers must be greater than 0"))
	}
	if v.GetInt("preview.width") < 0 {
		errs = multierror.Append(errs, errors.New("preview.width must not be negative"))
	}
	switch lvl := v.GetString("log.level"); lvl {
	case "none", "normal", "debug":
	default:
		errs = multierror.Append(errs, fmt.Errorf("log.level %q must be one of none, normal, debug", lvl))
	}
	return errs.ErrorOrNil()
}

func checkDBURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("db_url is invalid: %w", err)
	}
	switch u.Scheme {
	case "mem":
		return nil
	case "sqlite":
		if u.Host+u.Path == "" {
			return errors.New("db_url sqlite path is empty")
		}
		return nil
	default:
		return fmt.Errorf("db_url scheme %q is not supported", u.Scheme)
	}
}
