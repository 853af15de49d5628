package synth

import "fmt"

// UnmatchedComponentError reports a component no rule applies to.
type UnmatchedComponentError struct {
	RefDes string
	Part   string
}

func (e *UnmatchedComponentError) Error() string {
	return fmt.Sprintf("no rule matching component %s: %s", e.RefDes, e.Part)
}

// MissingPinError reports a rule naming a pin the component does not have.
type MissingPinError struct {
	RefDes string
	Pin    string
}

func (e *MissingPinError) Error() string {
	return fmt.Sprintf("no pin number %s found for component %s", e.Pin, e.RefDes)
}
