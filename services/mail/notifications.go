package mail

import (
	"logiclabs/models"
)

// Notifications turns domain events into queued emails
type Notifications struct {
	dispatcher *Dispatcher
}

func NewNotifications(dispatcher *Dispatcher) *Notifications {
	return &Notifications{dispatcher: dispatcher}
}

func (n *Notifications) EnrollmentConfirmed(user models.User, course models.Course) {
	subject, body := EnrollmentConfirmedEmail(course.Title, user.FullName())
	n.dispatcher.Dispatch(Message{To: user.Email, ToName: user.FullName(), Subject: subject, HTML: body})
}

// PaymentReceived takes the amount in paise, as the gateway reports it
func (n *Notifications) PaymentReceived(user models.User, amount int64, orderID, paymentID string) {
	subject, body := PaymentReceivedEmail(user.FullName(), float64(amount)/100, orderID, paymentID)
	n.dispatcher.Dispatch(Message{To: user.Email, ToName: user.FullName(), Subject: subject, HTML: body})
}

func (n *Notifications) PasswordUpdated(user models.User) {
	subject, body := PasswordUpdatedEmail(user.Email, user.FullName())
	n.dispatcher.Dispatch(Message{To: user.Email, ToName: user.FullName(), Subject: subject, HTML: body})
}

// Wait drains pending deliveries
func (n *Notifications) Wait() {
	n.dispatcher.Wait()
}
