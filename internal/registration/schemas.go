package registration

import "spa-registry/internal/common/validation"

var spaFieldsSchema = validation.MustCompile("spa registration", `{
	"type": "object",
	"required": ["name", "email"],
	"properties": {
		"name":      {"type": "string", "pattern": "\\S", "maxLength": 255},
		"ownerName": {"type": "string", "maxLength": 255},
		"email":     {"type": "string", "format": "email", "maxLength": 255},
		"phone":     {"type": "string", "maxLength": 32},
		"address":   {"type": "string"},
		"district":  {"type": "string", "maxLength": 100}
	}
}`)

var therapistFieldsSchema = validation.MustCompile("therapist", `{
	"type": "object",
	"required": ["firstName", "lastName"],
	"properties": {
		"firstName":      {"type": "string", "pattern": "\\S", "maxLength": 100},
		"lastName":       {"type": "string", "pattern": "\\S", "maxLength": 100},
		"nic":            {"type": "string", "maxLength": 20},
		"email":          {"type": "string", "format": "email", "maxLength": 255},
		"phone":          {"type": "string", "maxLength": 32},
		"address":        {"type": "string"},
		"specialization": {"type": "string", "maxLength": 255}
	}
}`)
