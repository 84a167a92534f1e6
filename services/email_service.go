package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"github.com/guardian-portal/api/model"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	appURL   string
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return &EmailService{
		host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnvOrDefault("SMTP_FROM", "noreply@guardianportal.app"),
		appURL:   getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendComplaintSubmitted confirms to the filing student that their
// complaint was recorded.
func (e *EmailService) SendComplaintSubmitted(toEmail, studentName string, complaint *model.Complaint) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Skipping submission email for complaint #%d", complaint.ID)
		return fmt.Errorf("SMTP not configured")
	}

	subject := fmt.Sprintf("Complaint Received: %s", complaint.Title)
	intro := fmt.Sprintf(
		`<p>Hello %s,</p>
		<p>Your complaint <strong>%s</strong> has been received and is now in the <strong>%s</strong> queue. The investigation squad will review it shortly.</p>
		<p>You will get an email each time the status of your complaint changes.</p>`,
		htmlName(studentName), complaint.Title, complaint.Status)
	body := e.buildEmailBody("Complaint Received", intro, e.appURL+"/complaints", "View My Complaints")

	return e.sendEmail(toEmail, subject, body)
}

// SendStatusUpdate notifies the filing student that a complaint moved to a
// new status. When the complaint is solved the mail also asks for feedback.
func (e *EmailService) SendStatusUpdate(toEmail, studentName string, complaint *model.Complaint, oldStatus, newStatus model.ComplaintStatus) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Skipping status email for complaint #%d", complaint.ID)
		return fmt.Errorf("SMTP not configured")
	}

	subject := fmt.Sprintf("Complaint Update: %s is now %s", complaint.Title, newStatus)
	intro := fmt.Sprintf(
		`<p>Hello %s,</p>
		<p>The status of your complaint <strong>%s</strong> has changed from <strong>%s</strong> to <strong>%s</strong>.</p>`,
		htmlName(studentName), complaint.Title, oldStatus, newStatus)

	link := e.appURL + "/complaints"
	action := "View Complaint"
	if newStatus == model.StatusSolved {
		intro += `<p>We would appreciate your feedback on how this complaint was handled. It helps us improve the process for everyone.</p>`
		link = fmt.Sprintf("%s/complaints/%d/feedback", e.appURL, complaint.ID)
		action = "Share Feedback"
	}

	body := e.buildEmailBody("Complaint Status Update", intro, link, action)
	return e.sendEmail(toEmail, subject, body)
}

// SendAssignmentNotice tells a staff member a complaint was assigned to
// them. Anonymous complaints never reveal the filer's name here.
func (e *EmailService) SendAssignmentNotice(assignee *model.User, complaint *model.Complaint) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Skipping assignment email for complaint #%d", complaint.ID)
		return fmt.Errorf("SMTP not configured")
	}

	filedBy := model.AnonymousStudentName
	if !complaint.IsAnonymous && complaint.Student != nil {
		filedBy = complaint.Student.Username
	}

	subject := fmt.Sprintf("Complaint Assigned: %s", complaint.Title)
	intro := fmt.Sprintf(
		`<p>Hello %s,</p>
		<p>The complaint <strong>%s</strong> (filed by %s) has been assigned to you for investigation.</p>
		<p>Please review the details and update the status as the investigation progresses.</p>`,
		htmlName(assignee.Username), complaint.Title, filedBy)
	link := fmt.Sprintf("%s/complaints/%d", e.appURL, complaint.ID)
	body := e.buildEmailBody("New Assignment", intro, link, "Open Complaint")

	return e.sendEmail(assignee.Email, subject, body)
}

// SendWelcomeEmail greets a newly registered user.
func (e *EmailService) SendWelcomeEmail(toEmail, userName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Skipping welcome email for %s", toEmail)
		return fmt.Errorf("SMTP not configured")
	}

	subject := "Welcome to Guardian Portal"
	intro := fmt.Sprintf(
		`<p>Hello %s,</p>
		<p>Your Guardian Portal account has been created. You can now report ragging incidents, track their progress and receive updates directly in your inbox.</p>
		<p>If you ever need to report an incident anonymously, your identity will be hidden from everyone except the administrators.</p>`,
		htmlName(userName))
	body := e.buildEmailBody("Welcome Aboard", intro, e.appURL, "Go to Portal")

	return e.sendEmail(toEmail, subject, body)
}

func htmlName(name string) string {
	if name == "" {
		return "User"
	}
	return name
}

// buildEmailBody wraps content in the shared Guardian Portal layout
func (e *EmailService) buildEmailBody(heading, content, link, action string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - Guardian Portal</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: #ffffff;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
        }
        .logo {
            text-align: center;
            margin-bottom: 30px;
            padding-bottom: 20px;
            border-bottom: 2px solid #1a3a5c;
        }
        .logo h1 {
            color: #1a3a5c;
            font-size: 28px;
            margin: 0;
            letter-spacing: -0.5px;
        }
        .logo .domain {
            color: #666;
            font-size: 14px;
            margin-top: 5px;
        }
        h2 {
            color: #1a3a5c;
            margin-top: 0;
        }
        .button {
            display: inline-block;
            background-color: #1a3a5c;
            color: #ffffff !important;
            padding: 14px 28px;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 600;
            margin: 20px 0;
        }
        .button:hover {
            background-color: #12293f;
        }
        .footer {
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
        .footer a {
            color: #1a3a5c;
            text-decoration: none;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">
            <h1>Guardian Portal</h1>
            <div class="domain">Anti-Ragging Reporting System</div>
        </div>

        <h2>%s</h2>

        %s

        <p style="text-align: center;">
            <a href="%s" class="button">%s</a>
        </p>

        <div class="footer">
            <p><strong>Guardian Portal</strong></p>
            <p>A safe channel for reporting ragging incidents</p>
            <p>This is an automated message. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>`, heading, heading, content, link, action)
}

// sendEmail sends an email using SMTP with TLS
func (e *EmailService) sendEmail(to, subject, htmlBody string) error {
	// Build the email message with proper headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("Guardian Portal <%s>", e.from)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "Guardian Portal Mailer"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         e.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	_, err = w.Write([]byte(message.String()))
	if err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Email sent to %s: %s", to, subject)
	return nil
}
