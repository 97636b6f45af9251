// Package config loads configuration from one or more yaml files,
// deep-merging them in order and validating the result.
package config

import (
	"fmt"
	"os"
	"reflect"

	log "github.com/sirupsen/logrus"

	"github.com/go-playground/validator/v10"
	"github.com/imdario/mergo"
	"gopkg.in/yaml.v2"
)

// Load reads every provided yaml file in order and merges its
// content into the target struct. Later files override earlier ones.
// The yaml parser alone only overrides at the top level, so each file
// is first parsed into a fresh zero value and then deep-merged with
// `mergo`.
func Load(configFiles []string, target interface{}) error {
	for _, path := range configFiles {
		log.WithFields(log.Fields{"File": path}).Info("Parsing config file")
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		parsed := zeroValueFor(target)
		if err := yaml.Unmarshal(raw, parsed); err != nil {
			return err
		}
		if err := mergo.Merge(target, parsed, mergo.WithOverride); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the target struct against its `validate` tags.
// A validator.InvalidValidationError means the input itself could not
// be validated (e.g. a non-struct was passed) and is wrapped with a
// plain error; actual validation failures are returned as-is and
// should only be consumed through Error().
func Validate(target interface{}) error {
	validate := validator.New()
	err := validate.Struct(target)
	if _, ok := err.(*validator.InvalidValidationError); ok {
		return fmt.Errorf("could not validate input (%v): %v", target, err)
	}
	return err
}

// LoadAndValidate merges the provided yaml files into target and then
// validates it. Check the returned error before using the target:
// some fields may be populated even when a later file failed to load.
func LoadAndValidate(configFiles []string, target interface{}) error {
	if err := Load(configFiles, target); err != nil {
		return err
	}
	return Validate(target)
}

// zeroValueFor returns a pointer to a new zero value of the same type
// the target pointer refers to, so each yaml file can be parsed in
// isolation before merging. Panics if target is not a pointer.
func zeroValueFor(target interface{}) interface{} {
	return reflect.New(reflect.TypeOf(target).Elem()).Interface()
}
