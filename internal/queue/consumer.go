package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartNotifyConsumer connects to RabbitMQ at the given URL, declares the
// ministry.notify queue (durable), and consumes events. Each event is
// appended to logs/notify.log in a single-line, human-friendly format. The
// function runs a reconnect loop with exponential backoff and never
// returns under normal operation; processing errors are logged and the
// offending message is rejected without requeue so the server keeps going.
func StartNotifyConsumer(url string) error {
	if url == "" {
		return errors.New("notify-consumer: empty broker URL")
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("notify-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("notify-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notify-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(NotifyQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(NotifyQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("notify-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var env struct {
		Event   string          `json:"event"`
		At      time.Time       `json:"at"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	line, err := formatEvent(env.Event, env.At, env.Payload)
	if err != nil {
		return err
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "notify.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatEvent(name string, at time.Time, payload json.RawMessage) (string, error) {
	ts := at.UTC().Format(time.RFC3339)
	switch name {
	case EventContentCreated:
		var ev ContentCreatedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", name, err)
		}
		return fmt.Sprintf("[%s] Content created | type=%s | id=%d | owner_id=%d | status=%s | title=\"%s\"\n",
			ts, ev.ContentType, ev.ContentID, ev.OwnerID, ev.Status, ev.Title), nil
	case EventContentVerified:
		var ev ContentVerifiedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", name, err)
		}
		return fmt.Sprintf("[%s] Content verified | type=%s | id=%d | %s -> %s | verified_by=%d\n",
			ts, ev.ContentType, ev.ContentID, ev.From, ev.To, ev.VerifiedBy), nil
	case EventUserVerified:
		var ev UserVerifiedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", name, err)
		}
		return fmt.Sprintf("[%s] User verified | user_id=%d | role=%s | verified_by=%d\n",
			ts, ev.UserID, ev.Role, ev.VerifiedBy), nil
	case EventSermonLiked:
		var ev SermonLikedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", name, err)
		}
		action := "liked"
		if !ev.Liked {
			action = "unliked"
		}
		return fmt.Sprintf("[%s] Sermon %s | sermon_id=%d | user_id=%d | like_count=%d\n",
			ts, action, ev.SermonID, ev.UserID, ev.LikeCount), nil
	case EventClassScheduled:
		var ev ClassScheduledEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", name, err)
		}
		members := "[]"
		if len(ev.MemberIDs) > 0 {
			parts := make([]string, 0, len(ev.MemberIDs))
			for _, id := range ev.MemberIDs {
				parts = append(parts, fmt.Sprintf("%d", id))
			}
			members = fmt.Sprintf("[%s]", strings.Join(parts, ","))
		}
		return fmt.Sprintf("[%s] Class event scheduled | event_id=%d | date=%s | title=\"%s\" | members=%s\n",
			ts, ev.EventID, ev.EventDate.UTC().Format(time.RFC3339), ev.Title, members), nil
	default:
		return fmt.Sprintf("[%s] %s | payload=%s\n", ts, name, string(payload)), nil
	}
}
