package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"mime"
	"net/smtp"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/jordan-wright/email"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/storage"
)

const (
	MaxFetchMessages   = 100
	FetchBufferSize    = 10
	RecentMailDuration = 24 * time.Hour // how far back a mail still counts as new
)

// MailService is the mailbox access used to pull survey exports.
type MailService interface {
	Connect() error
	Disconnect()
	FetchUnreadEmails() ([]*Email, error)
}

// EmailHandler processes one fetched mail.
type EmailHandler interface {
	Handle(email *Email) error
}

type Email struct {
	UID         uint32
	Date        time.Time
	From        string
	Subject     string
	Attachments []*Attachment
}

type Attachment struct {
	Filename string
	Content  []byte
}

// EmailClient is the IMAP implementation of MailService.
type EmailClient struct {
	server    string
	username  string
	password  string
	client    *client.Client
	mu        sync.Mutex
	connected bool
}

func NewEmailClient(server, username, password string) *EmailClient {
	return &EmailClient{
		server:   server,
		username: username,
		password: password,
	}
}

func (s *EmailClient) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		if _, err := s.client.Capability(); err == nil {
			return nil
		}
		// stale connection, reset
		s.client.Logout()
		s.client = nil
	}

	c, err := client.DialTLS(s.server, nil)
	if err != nil {
		return fmt.Errorf("connecting to mail server: %w", err)
	}

	if err := c.Login(s.username, s.password); err != nil {
		c.Logout()
		return fmt.Errorf("mail login failed: %w", err)
	}

	s.client = c
	s.connected = true
	return nil
}

func (s *EmailClient) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		s.client.Logout()
		s.client = nil
	}
	s.connected = false
}

// FetchUnreadEmails returns the unread mails of the last day, newest
// first capped at MaxFetchMessages.
func (s *EmailClient) FetchUnreadEmails() ([]*Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, fmt.Errorf("not connected to mail server")
	}

	if _, err := s.client.Select("INBOX", false); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	criteria.Since = time.Now().Add(-RecentMailDuration)

	ids, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("searching mailbox: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if len(ids) > MaxFetchMessages {
		ids = ids[:MaxFetchMessages]
	}

	return s.fetchMessages(ids)
}

func (s *EmailClient) fetchMessages(ids []uint32) ([]*Email, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{
		imap.FetchEnvelope,
		imap.FetchFlags,
		imap.FetchInternalDate,
		imap.FetchUid,
		section.FetchItem(),
	}

	messages := make(chan *imap.Message, FetchBufferSize)
	done := make(chan error, 1)

	go func() {
		done <- s.client.Fetch(seqset, items, messages)
	}()

	var emails []*Email
	for msg := range messages {
		email, err := s.parseEmail(msg, section)
		if err != nil {
			log.Printf("failed to parse mail: %v", err)
			continue
		}
		emails = append(emails, email)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching mail bodies: %w", err)
	}

	return emails, nil
}

func (s *EmailClient) parseEmail(msg *imap.Message, section *imap.BodySectionName) (*Email, error) {
	r := msg.GetBody(section)
	if r == nil {
		return nil, fmt.Errorf("mail body is empty")
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating mail reader: %w", err)
	}

	header := mr.Header
	date, _ := header.Date() // a bad date header does not block the attachments

	email := &Email{
		UID:     msg.Uid,
		Date:    date,
		From:    decodeHeader(header.Get("From")),
		Subject: decodeHeader(header.Get("Subject")),
	}

	if err := s.parseEmailParts(mr, email); err != nil {
		return nil, err
	}

	return email, nil
}

func (s *EmailClient) parseEmailParts(mr *mail.Reader, email *Email) error {
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip parts that fail to parse
		}

		if h, ok := p.Header.(*mail.AttachmentHeader); ok {
			if err := s.parseAttachment(h, p.Body, email); err != nil {
				log.Printf("failed to parse attachment: %v", err)
			}
		}
	}
	return nil
}

func (s *EmailClient) parseAttachment(h *mail.AttachmentHeader, body io.Reader, email *Email) error {
	filename, err := h.Filename()
	if err != nil || filename == "" {
		return fmt.Errorf("attachment has no usable filename")
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("reading attachment body: %w", err)
	}

	email.Attachments = append(email.Attachments, &Attachment{
		Filename: decodeHeader(filename),
		Content:  buf.Bytes(),
	})
	return nil
}

// decodeHeader decodes =?charset?encoding?text?= encoded header words.
func decodeHeader(header string) string {
	decoder := mime.WordDecoder{
		CharsetReader: charsetReader,
	}

	decoded, err := decoder.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	default:
		return input, nil
	}
}

// SendReport mails the run summary to the configured recipients, with
// the combined dataset workbook attached when it exists.
func SendReport(c *config.Config, body, attachmentPath string) error {
	from := c.SendEmail.Username

	e := email.NewEmail()
	e.From = fmt.Sprintf("Survey Pipeline <%s>", from)
	e.To = c.SendEmail.Recipients
	e.Subject = c.SendEmail.Subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := os.Stat(attachmentPath); err == nil {
			if _, err := e.AttachFile(attachmentPath); err != nil {
				log.Printf("failed to attach report file: %v", err)
			}
		} else {
			log.Printf("report file does not exist: %s", attachmentPath)
		}
	}

	smtpAddr := c.SendEmail.Server
	if !strings.Contains(smtpAddr, ":") {
		smtpAddr += ":465"
	}
	host := strings.Split(smtpAddr, ":")[0]

	err := e.SendWithTLS(
		smtpAddr,
		smtp.PlainAuth("", from, c.SendEmail.Password, host),
		&tls.Config{ServerName: host},
	)
	if err != nil {
		return fmt.Errorf("sending report mail via %s: %w", smtpAddr, err)
	}
	return nil
}

// CheckAndProcessEmails pulls the mailbox once and returns the newest
// unread mail whose subject matches keyword, or nil when there is none.
func CheckAndProcessEmails(mailService MailService, keyword string, logger *storage.Logger) (*Email, error) {
	startTime := time.Now()
	logger.Info("checking mailbox for survey exports...")

	if err := mailService.Connect(); err != nil {
		return nil, fmt.Errorf("mailbox connect: %w", err)
	}
	defer mailService.Disconnect()

	emails, err := mailService.FetchUnreadEmails()
	if err != nil {
		return nil, fmt.Errorf("fetching mail: %w", err)
	}

	if len(emails) == 0 {
		logger.Info("no new mail")
		return nil, nil
	}

	targetEmail := filterLatestTargetEmail(emails, keyword)
	if targetEmail == nil {
		logger.Info("no mail matches the export subject")
		return nil, nil
	}

	logger.Info(fmt.Sprintf("mailbox check finished in %v", time.Since(startTime)))
	return targetEmail, nil
}

// filterLatestTargetEmail returns the newest mail whose subject
// contains keyword.
func filterLatestTargetEmail(emails []*Email, keyword string) *Email {
	var targetEmails []*Email
	for _, email := range emails {
		if strings.Contains(email.Subject, keyword) {
			targetEmails = append(targetEmails, email)
		}
	}

	if len(targetEmails) == 0 {
		return nil
	}

	sort.Slice(targetEmails, func(i, j int) bool {
		return targetEmails[i].Date.After(targetEmails[j].Date)
	})

	return targetEmails[0]
}
