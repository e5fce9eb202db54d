package content

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/jifunze/core"
)

var (
	oneCorrectTag  = "onecorrect"
	oneCorrectText = "exactly one option must be marked correct"

	xpOrChapterTag  = "xp_or_chapter"
	xpOrChapterText = "one of xp_required or chapter_id is required"
)

// InitValidators registers this package's struct validations and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(questionStructValidation, NewQuestion{})
	validate.RegisterStructValidation(achievementStructValidation, NewAchievement{})

	core.RegisterCustomTranslation(validate, translator, oneCorrectTag, oneCorrectText)
	core.RegisterCustomTranslation(validate, translator, xpOrChapterTag, xpOrChapterText)
}

// questionStructValidation enforces the exactly-one-correct-option invariant
// at write time; the legacy inline 1-of-4 layout is gone and nothing else
// guards it downstream.
func questionStructValidation(sl validator.StructLevel) {
	nq, ok := sl.Current().Interface().(NewQuestion)
	if !ok {
		return
	}
	var correct int
	for _, opt := range nq.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		sl.ReportError(nq.Options, "options", "Options", oneCorrectTag, "")
	}
}

func achievementStructValidation(sl validator.StructLevel) {
	na, ok := sl.Current().Interface().(NewAchievement)
	if !ok {
		return
	}
	if na.XPRequired == nil && na.ChapterID == nil {
		sl.ReportError(na.XPRequired, "xp_required", "XPRequired", xpOrChapterTag, "")
		sl.ReportError(na.ChapterID, "chapter_id", "ChapterID", xpOrChapterTag, "")
	}
}
