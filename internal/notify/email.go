package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-tracker/internal/tracker"
)

const alertSubject = "Budget Alert: spending threshold reached"

const alertBodyTemplate = `<html>
<body>
<p>Your <b>{{.CategoryName}}</b> budget has reached <b>{{.Percentage}}%</b> of its {{.AmountLimit}} limit.</p>
<p>Review your recent transactions to stay on track.</p>
</body>
</html>`

// Config holds SMTP transport settings. An empty Host disables sending.
type Config struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

type alertBody struct {
	CategoryName string
	Percentage   string
	AmountLimit  string
}

// EmailNotifier queues budget alerts and delivers them over SMTP from a
// single worker goroutine. Callers never wait on delivery and never observe
// delivery failures; those are logged by the worker.
type EmailNotifier struct {
	config   Config
	template *template.Template
	queue    chan tracker.BudgetAlert
	stopOnce sync.Once
	done     chan struct{}
}

func NewEmailNotifier(config Config) *EmailNotifier {
	n := &EmailNotifier{
		config:   config,
		template: template.Must(template.New("budget_alert").Parse(alertBodyTemplate)),
		queue:    make(chan tracker.BudgetAlert, 100),
		done:     make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify enqueues the alert. The only failure mode is a full queue.
func (n *EmailNotifier) Notify(alert tracker.BudgetAlert) error {
	select {
	case n.queue <- alert:
		return nil
	default:
		return fmt.Errorf("alert queue full, dropping alert for %s", alert.Email)
	}
}

// Stop drains nothing; queued alerts not yet sent are dropped.
func (n *EmailNotifier) Stop() {
	n.stopOnce.Do(func() {
		close(n.done)
	})
}

func (n *EmailNotifier) run() {
	for {
		select {
		case alert := <-n.queue:
			if err := n.send(alert); err != nil {
				logrus.WithError(err).WithField("email", alert.Email).Error("EmailNotifier.send failed")
				continue
			}
			logrus.WithField("email", alert.Email).Info("EmailNotifier.alert delivered")
		case <-n.done:
			return
		}
	}
}

func (n *EmailNotifier) send(alert tracker.BudgetAlert) error {
	body := alertBody{
		CategoryName: alert.CategoryName,
		Percentage:   alert.Percentage.StringFixed(2),
		AmountLimit:  alert.AmountLimit.StringFixed(2),
	}

	var rendered bytes.Buffer
	if err := n.template.Execute(&rendered, body); err != nil {
		return err
	}

	message := []byte("From: " + n.config.From + "\r\n" +
		"To: " + alert.Email + "\r\n" +
		"Subject: " + alertSubject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		rendered.String())

	addr := n.config.Host + ":" + n.config.Port
	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}
	return smtp.SendMail(addr, auth, n.config.From, []string{alert.Email}, message)
}

// NoopNotifier is used when SMTP is unconfigured; alerts are logged and
// discarded.
type NoopNotifier struct{}

func (NoopNotifier) Notify(alert tracker.BudgetAlert) error {
	logrus.WithFields(logrus.Fields{
		"email":    alert.Email,
		"category": alert.CategoryName,
	}).Info("NoopNotifier.alert discarded, SMTP not configured")
	return nil
}

// ForConfig picks the email notifier when a host is configured, the no-op
// notifier otherwise.
func ForConfig(config Config) tracker.Notifier {
	if config.Host == "" {
		return NoopNotifier{}
	}
	return NewEmailNotifier(config)
}
