package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService sends the transactional mails of the HR workflow.
type EmailService interface {
	SendAccountCreated(to, employeeName, loginURL string) error
	SendLeaveSubmitted(to, employeeName, leaveType, startDate, endDate, reviewURL string) error
	SendLeaveDecision(to, employeeName, leaveType, startDate, endDate, status string, comment *string) error
	SendTaskAssigned(to, employeeName, taskTitle string, dueDate *string, taskURL string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
}

func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

type accountCreatedData struct {
	EmployeeName string
	LoginURL     string
}

func (s *emailServiceImpl) SendAccountCreated(to, employeeName, loginURL string) error {
	return s.render(to, "Your HR account is ready", "account_created.html", accountCreatedData{
		EmployeeName: employeeName,
		LoginURL:     loginURL,
	})
}

type leaveSubmittedData struct {
	EmployeeName string
	LeaveType    string
	StartDate    string
	EndDate      string
	ReviewURL    string
}

func (s *emailServiceImpl) SendLeaveSubmitted(to, employeeName, leaveType, startDate, endDate, reviewURL string) error {
	return s.render(to, fmt.Sprintf("Leave request from %s", employeeName), "leave_submitted.html", leaveSubmittedData{
		EmployeeName: employeeName,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		ReviewURL:    reviewURL,
	})
}

type leaveDecisionData struct {
	EmployeeName string
	LeaveType    string
	StartDate    string
	EndDate      string
	Status       string
	Comment      string
}

func (s *emailServiceImpl) SendLeaveDecision(to, employeeName, leaveType, startDate, endDate, status string, comment *string) error {
	data := leaveDecisionData{
		EmployeeName: employeeName,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       status,
	}
	if comment != nil {
		data.Comment = *comment
	}
	return s.render(to, fmt.Sprintf("Your leave request was %s", status), "leave_decision.html", data)
}

type taskAssignedData struct {
	EmployeeName string
	TaskTitle    string
	DueDate      string
	TaskURL      string
}

func (s *emailServiceImpl) SendTaskAssigned(to, employeeName, taskTitle string, dueDate *string, taskURL string) error {
	data := taskAssignedData{
		EmployeeName: employeeName,
		TaskTitle:    taskTitle,
		TaskURL:      taskURL,
	}
	if dueDate != nil {
		data.DueDate = *dueDate
	}
	return s.render(to, fmt.Sprintf("New task: %s", taskTitle), "task_assigned.html", data)
}

func (s *emailServiceImpl) render(to, subject, name string, data any) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// exponential backoff: 1x, 2x
		if attempt < maxRetries {
			time.Sleep(s.backoff << (attempt - 1))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
