package transport

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	Data    any      `json:"data,omitempty"`
}

func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Errors: []string{}, Data: data}
}

func Fail(message string, errs ...string) Response {
	if errs == nil {
		errs = []string{}
	}
	return Response{Success: false, Message: message, Errors: errs}
}
