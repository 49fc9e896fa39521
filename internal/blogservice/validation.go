package blogservice

import (
	"regexp"

	"github.com/plokkeri/plok/internal/common"
)

var (
	// SlugRX matches the URL-safe names used by blogs and articles.
	SlugRX = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func validateSlug(v *common.Validator, name, field string) {
	v.Check(name != "", field, "must be provided")
	v.Check(v.CheckStringLength(name, 1, 100), field, "must not be more than 100 characters long")
	v.Check(SlugRX.MatchString(name), field, "must only contain letters, numbers, hyphens and underscores")
}

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 250), "title", "must not be more than 250 characters long")
}

func validateFormat(v *common.Validator, format string) {
	v.Check(v.In(format, FormatHTML, FormatMarkdown), "format", "must be either html or markdown")
}

func validateCommentText(v *common.Validator, text string) {
	v.Check(text != "", "text", "must be provided")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
