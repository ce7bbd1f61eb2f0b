package valueobjects

// PaymentState is the local settlement state of a provider checkout.
type PaymentState string

const (
	PaymentStateAuthorization PaymentState = "authorization"
	PaymentStateCompleted     PaymentState = "completed"
)

func (s PaymentState) IsValid() bool {
	switch s {
	case PaymentStateAuthorization, PaymentStateCompleted:
		return true
	default:
		return false
	}
}

func (s PaymentState) IsAuthorized() bool {
	return s == PaymentStateAuthorization
}

func (s PaymentState) IsCompleted() bool {
	return s == PaymentStateCompleted
}

func (s PaymentState) String() string {
	return string(s)
}
