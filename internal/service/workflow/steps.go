package workflow

import "strconv"

// Steps shared by several handlers.

func customerInfoStep(step StepRequest, form *FormState) *StepView {
	return &StepView{
		Number: step.Number,
		Type:   step.Type,
		Title:  "Contact details",
		Fields: []FieldView{
			{Name: "customerName", Label: "Name", Kind: "text", Required: true, Value: form.CustomerName},
			{Name: "customerPhone", Label: "Phone", Kind: "text", Required: true, Value: form.CustomerPhone},
			{Name: "customerEmail", Label: "Email", Kind: "text", Value: form.CustomerEmail},
		},
	}
}

func notesStep(step StepRequest, form *FormState) *StepView {
	return &StepView{
		Number: step.Number,
		Type:   step.Type,
		Title:  "Notes",
		Fields: []FieldView{
			{Name: "notes", Label: "Additional notes", Kind: "textarea", Value: form.Notes},
		},
	}
}

func filesStep(step StepRequest, form *FormState, accept string) *StepView {
	fields := []FieldView{
		{Name: "designFiles", Label: "Design files", Kind: "file", Required: true},
	}
	if accept != "" {
		fields[0].Options = []string{accept}
	}
	fields = append(fields, FieldView{
		Name: "uploadedCount", Label: "Uploaded", Kind: "text",
		Value: strconv.Itoa(len(form.DesignFiles)),
	})
	return &StepView{
		Number: step.Number,
		Type:   step.Type,
		Title:  "Upload designs",
		Fields: fields,
	}
}
