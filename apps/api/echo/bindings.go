package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/grading"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	// QuizSubmission maps question ID to the selected option position (1-based).
	QuizSubmission struct {
		Answers grading.Submission `json:"answers" validate:"required"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func (qs *QuizSubmission) Validate(validate *validator.Validate) error {
	return validate.Struct(qs)
}
