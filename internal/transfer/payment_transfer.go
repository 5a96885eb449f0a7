package transfer

// PaymentEvent is the payment processor's webhook envelope, reduced to
// the fields this service acts on.
type PaymentEvent struct {
	ID        string `json:"id"`
	EventType string `json:"type"`
	CreatedAt int64  `json:"created"`
	Data      struct {
		Object struct {
			ID              string `json:"id"`
			CustomerID      string `json:"customer"`
			CustomerEmail   string `json:"customer_email"`
			CustomerDetails struct {
				Email string `json:"email"`
				Name  string `json:"name"`
			} `json:"customer_details"`
			Metadata struct {
				Plan string `json:"plan"`
				City string `json:"city"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventSubscriptionCancelled = "customer.subscription.deleted"
)

func (e *PaymentEvent) Email() string {
	if e.Data.Object.CustomerEmail != "" {
		return e.Data.Object.CustomerEmail
	}
	return e.Data.Object.CustomerDetails.Email
}
