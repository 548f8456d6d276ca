package setting

import "errors"

var (
	ErrRuleNotFound        = errors.New("detection rule not found")
	ErrInvalidTemplateType = errors.New("invalid template type")
)
