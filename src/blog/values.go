package blog

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const TitleMaxLength = 200

/*
Value objects for the published side of the article lifecycle. Drafts may be
saved half-finished with any old title or slug; these constructors are the
gate that invalid values cannot pass on their way into a published row.
*/

type PublishedArticleTitle string

type PublishedArticleSlug string

func NewPublishedArticleTitle(raw string) (PublishedArticleTitle, error) {
	err := validation.Validate(raw,
		validation.By(notBlank("title")),
		validation.RuneLength(0, TitleMaxLength).Error(fmt.Sprintf("title must be at most %d characters", TitleMaxLength)),
	)
	if err != nil {
		return "", ValidationError{Message: err.Error()}
	}
	// The original string is kept as-is, whitespace and all.
	return PublishedArticleTitle(raw), nil
}

func NewPublishedArticleSlug(raw string) (PublishedArticleSlug, error) {
	err := validation.Validate(raw, validation.By(notBlank("slug")))
	if err != nil {
		return "", ValidationError{Message: err.Error()}
	}
	return PublishedArticleSlug(raw), nil
}

func (t PublishedArticleTitle) String() string {
	return string(t)
}

func (s PublishedArticleSlug) String() string {
	return string(s)
}

func notBlank(what string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be blank", what)
		}
		return nil
	}
}
