package email

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TableAttachmentHandler saves the survey table attachments of a mail
// into the raw data directory. Mails are tracked by UID so a mail seen
// twice is only written once.
type TableAttachmentHandler struct {
	TargetSubject string
	DataDir       string
	processedUIDs map[uint32]bool
	mu            sync.RWMutex
}

func NewTableAttachmentHandler(subject, dataDir string) *TableAttachmentHandler {
	return &TableAttachmentHandler{
		TargetSubject: subject,
		DataDir:       dataDir,
		processedUIDs: make(map[uint32]bool),
	}
}

func (h *TableAttachmentHandler) isProcessed(uid uint32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.processedUIDs[uid]
}

func (h *TableAttachmentHandler) markAsProcessed(uid uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.processedUIDs[uid] = true
}

// Handle writes every csv or xlsx attachment of email into DataDir.
func (h *TableAttachmentHandler) Handle(email *Email) error {
	if h.isProcessed(email.UID) {
		return nil
	}

	if !strings.Contains(email.Subject, h.TargetSubject) {
		fmt.Printf("skipping mail with unrelated subject: %s\n", email.Subject)
		return nil
	}

	fmt.Printf("\nprocessing mail: %s\nfrom: %s\ndate: %s\n",
		email.Subject, email.From, email.Date.Format("2006-01-02 15:04:05"))

	if err := os.MkdirAll(h.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %v", err)
	}

	saved := false
	for _, attachment := range email.Attachments {
		ext := strings.ToLower(filepath.Ext(attachment.Filename))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		fmt.Println("found survey table attachment:", attachment.Filename)

		filePath := filepath.Join(h.DataDir, filepath.Base(attachment.Filename))
		if err := os.WriteFile(filePath, attachment.Content, 0644); err != nil {
			return fmt.Errorf("saving attachment: %v", err)
		}

		fmt.Printf("attachment saved to: %s\n", filePath)
		saved = true
	}

	if saved {
		h.markAsProcessed(email.UID)
	}

	return nil
}
