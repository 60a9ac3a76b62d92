package portfolio

// DefaultAPIErrorMessage is used when a failure envelope carries no error text.
const DefaultAPIErrorMessage = "API request failed"

// Envelope is the backend's response wrapper. Success true means Data is authoritative;
// Success false means Error describes the failure.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Unwrap returns the payload of a successful envelope. A nil envelope, a failure envelope, or a
// success envelope without data is an error, never a zero-value success.
func Unwrap[T any](env *Envelope[T]) (data T, err error) {
	if env == nil {
		err = &ServerError{Message: DefaultAPIErrorMessage}
		return data, err
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = DefaultAPIErrorMessage
		}
		err = &ServerError{Message: msg}
		return data, err
	}

	if env.Data == nil {
		err = &ServerError{Message: DefaultAPIErrorMessage + ": response has no data"}
		return data, err
	}

	data = *env.Data
	return data, err
}
