package sauces

import (
	"encoding/json"
	"strings"

	"github.com/rohits-web03/piiquante/internal/apperr"
	"github.com/rohits-web03/piiquante/internal/utils"
)

// Input is the owner-editable part of a sauce as sent by clients. Owner and
// vote fields are deliberately absent so a body can never set them.
type Input struct {
	Name         string `json:"name" validate:"required"`
	Manufacturer string `json:"manufacturer" validate:"required"`
	Description  string `json:"description" validate:"required"`
	MainPepper   string `json:"mainPepper" validate:"required"`
	Heat         int    `json:"heat" validate:"min=1,max=10"`
}

// DecodeInput parses the JSON carried in the multipart "sauce" field or a
// plain JSON body. Unknown fields such as userId or likes are ignored.
func DecodeInput(raw []byte) (Input, error) {
	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return Input{}, apperr.Wrap(apperr.InvalidInput, "The sauce data is not valid JSON", err)
	}
	return in.normalized(), nil
}

func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Manufacturer = strings.TrimSpace(in.Manufacturer)
	in.Description = strings.TrimSpace(in.Description)
	in.MainPepper = strings.TrimSpace(in.MainPepper)
	return in
}

// Validate trims the text fields and checks the result. Callers store the
// returned copy so every path persists the same values.
func (in Input) Validate() (Input, error) {
	in = in.normalized()
	if err := utils.ValidateStruct(in); err != nil {
		return Input{}, err
	}
	return in, nil
}
