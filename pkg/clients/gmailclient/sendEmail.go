package gmailclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
)

// sendInterval spaces out sends to stay under the Gmail API rate limits
const sendInterval = 3 * time.Second

// SendEmail sends a plain text email. Calls are serialised and spaced by
// sendInterval. Waiting for the next send slot honours ctx.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	if wait := sendInterval - time.Since(c.lastSendTime); !c.lastSendTime.IsZero() && wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	userID := c.userID
	if userID == "" {
		userID = "me"
	}

	message := &gmail.Message{Raw: encodeMessage(c.sender, to, subject, body)}
	if _, err := c.service.Users.Messages.Send(userID, message).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	c.lastSendTime = time.Now()
	return nil
}

// encodeMessage builds a base64url encoded RFC 822 message. The subject is
// encoded as a MIME word so non-ASCII names survive.
func encodeMessage(from, to, subject, body string) string {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
