package render

import "fmt"

type Error struct {
	Err     error
	Message string
}

func (e Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e Error) Unwrap() error { return e.Err }
