package sortengine

import (
	"golang.org/x/text/language"

	"github.com/lwouis/fatsort-go/ferr"
)

func parseLocaleTag(name string) (language.Tag, error) {
	if name == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, ferr.ErrUnsupported.WithMessage("unrecognized locale name: " + name).WrapError(err)
	}
	return tag, nil
}
