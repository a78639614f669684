package mail

import (
	"fmt"
	"html"
)

// HTML wrapper shared by every email
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #000814; padding: 30px; text-align: center; }
			.header h1 { color: #FFD60A; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #161D29; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.info-box { background: #FFF8D6; padding: 15px; border-radius: 4px; border-left: 4px solid #FFD60A; margin: 20px 0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #FFD60A; color: #000814; text-decoration: none; border-radius: 4px; font-weight: bold; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LOGIC LABS ED</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				If you have any questions, reply to this email and our team will help you out.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// EnrollmentConfirmedEmail is sent once per course after a successful enrollment
func EnrollmentConfirmedEmail(courseTitle, name string) (subject string, body string) {
	subject = "Successfully enrolled into " + courseTitle
	content := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully registered for the course <strong>%s</strong>.</p>
		<p>Please log in to your dashboard to access the course materials and start your learning journey.</p>
		<a href="#" class="btn">Go to Dashboard</a>
	`, html.EscapeString(name), html.EscapeString(courseTitle))
	return subject, getEmailTemplate("Course Registration Confirmation", content)
}

// PaymentReceivedEmail confirms a payment; amount is in rupees
func PaymentReceivedEmail(name string, amount float64, orderID, paymentID string) (subject string, body string) {
	subject = "Payment Received"
	content := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received a payment of <strong>₹%.2f</strong>.</p>
		<div class="info-box">
			<strong>Payment ID:</strong> %s<br>
			<strong>Order ID:</strong> %s
		</div>
	`, html.EscapeString(name), amount, html.EscapeString(paymentID), html.EscapeString(orderID))
	return subject, getEmailTemplate("Payment Confirmation", content)
}

// PasswordUpdatedEmail tells the account owner their password was changed
func PasswordUpdatedEmail(email, name string) (subject string, body string) {
	subject = "Password updated successfully for " + name
	content := fmt.Sprintf(`
		<p>Hey %s,</p>
		<p>Your password has been updated for the account <strong>%s</strong>.</p>
		<p>If you did not request this change, please contact us immediately to secure your account.</p>
	`, html.EscapeString(name), html.EscapeString(email))
	return subject, getEmailTemplate("Password Update Confirmation", content)
}
