// Package validator provides small, composable validation rules whose
// failures are aggregated into a single error value.
//
// Every rule is a Rule value: a Check function plus the ValidationError
// reported when the check fails. Apply evaluates all rules and returns every
// failure at once as ValidationErrors, never stopping at the first problem.
// This is the behaviour the rbac role registry relies on when it reports an
// empty name, an unknown permission and a malformed color in one response.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.RequiredString("name", in.Name),
//	    validator.MaxLenString("name", in.Name, 64),
//	    validator.UniqueFold("name", in.Name, existingNames),
//	    validator.When(in.Color != "", validator.ValidHexColor("color", in.Color)),
//	    validator.EachIn("permissions", in.Permissions, catalog.Has),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, field := range verrs.Fields() {
//	        // render verrs.Get(field)
//	    }
//	}
//
// # Error Handling
//
// ValidationErrors implements error and matches ErrValidationFailed with
// errors.Is, so callers can detect validation problems without a type
// assertion and still reach field details through errors.As or
// ExtractValidationErrors.
//
// Rules carry a TranslationKey and TranslationValues so that messages can be
// localised by the presentation layer.
package validator
