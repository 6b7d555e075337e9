// Package notify builds and delivers push notifications for
// reservation lifecycle transitions. Delivery is best effort: every
// failure is logged and swallowed so a push outage can never fail the
// transition that triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Sender delivers a data payload to a set of device tokens with a
// time-to-live in seconds.
type Sender interface {
	Send(ctx context.Context, tokens []string, data interface{}, ttlSeconds int64) error
}

// FCMSender implements Sender over the Firebase Cloud Messaging
// legacy HTTP endpoint. The server key and endpoint are injected from
// configuration, never embedded.
type FCMSender struct {
	Endpoint  string
	ServerKey string
	Client    *http.Client
}

// NewFCMSender builds an FCMSender with a bounded request timeout.
func NewFCMSender(endpoint, serverKey string) *FCMSender {
	return &FCMSender{
		Endpoint:  endpoint,
		ServerKey: serverKey,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one multicast message. The ttl is forwarded as-is; FCM
// treats out-of-range values as its default.
func (s *FCMSender) Send(ctx context.Context, tokens []string, data interface{}, ttlSeconds int64) error {
	body, err := json.Marshal(map[string]interface{}{
		"registration_ids": tokens,
		"data":             data,
		"time_to_live":     ttlSeconds,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.ServerKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("fcm: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ReservationPlacedPayload is sent to the restaurant agent when a
// customer creates or edits a reservation.
type ReservationPlacedPayload struct {
	ReservationID uint64                  `json:"reservationId"`
	ReservationAt time.Time               `json:"reservationDateTime"`
	SumPrice      *int                    `json:"sumPrice"`
	TableNumber   *int                    `json:"tableNumber"`
	PeopleCount   *int                    `json:"peopleCount"`
	Note          *string                 `json:"note"`
	Status        model.ReservationStatus `json:"status"`
}

// StatusChangedPayload is sent to the customer when the agent moves
// the reservation through its lifecycle. All three restaurant names
// are included; clients pick their display language.
type StatusChangedPayload struct {
	ReservationID uint64                  `json:"reservationId"`
	NameHy        string                  `json:"restaurantNameHy"`
	NameEn        string                  `json:"restaurantNameEn"`
	NameRu        string                  `json:"restaurantNameRu"`
	ReservationAt time.Time               `json:"reservationDateTime"`
	Status        model.ReservationStatus `json:"status"`
}

// Dispatcher composes payloads and hands them to the Sender. Now is
// injectable for tests and defaults to time.Now.
type Dispatcher struct {
	Sender Sender
	Now    func() time.Time
}

// NewDispatcher wraps a Sender in a Dispatcher.
func NewDispatcher(s Sender) *Dispatcher {
	return &Dispatcher{Sender: s, Now: time.Now}
}

// TTLSeconds is the notification lifetime: the span from now until
// the reserved time, in whole seconds. A reservation already in the
// past yields a negative value, which is passed through unclamped.
func (d *Dispatcher) TTLSeconds(reservationAt time.Time) int64 {
	return int64(reservationAt.UTC().Sub(d.Now().UTC()).Seconds())
}

// NotifyReservationPlaced informs the restaurant agent of a new or
// edited reservation. It is a no-op when the agent is missing,
// inactive or has no registered device tokens.
func (d *Dispatcher) NotifyReservationPlaced(ctx context.Context, agent *model.User, res *model.Reservation) {
	if agent == nil || !agent.IsActive {
		return
	}
	tokens := agent.DeviceTokens()
	if len(tokens) == 0 {
		return
	}
	payload := ReservationPlacedPayload{
		ReservationID: res.ID,
		ReservationAt: res.ReservationAt,
		SumPrice:      res.SumPrice,
		TableNumber:   res.TableNumber,
		PeopleCount:   res.PeopleCount,
		Note:          res.Note,
		Status:        res.Status,
	}
	if err := d.Sender.Send(ctx, tokens, payload, d.TTLSeconds(res.ReservationAt)); err != nil {
		log.Printf("notify: reservation %d agent push failed: %v", res.ID, err)
	}
}

// NotifyStatusChanged informs the customer that the reservation moved
// to a new state. Same skip rules as NotifyReservationPlaced.
func (d *Dispatcher) NotifyStatusChanged(ctx context.Context, customer *model.User, res *model.Reservation, rest *model.Restaurant) {
	if customer == nil || !customer.IsActive {
		return
	}
	tokens := customer.DeviceTokens()
	if len(tokens) == 0 {
		return
	}
	payload := StatusChangedPayload{
		ReservationID: res.ID,
		NameHy:        rest.NameHy,
		NameEn:        rest.NameEn,
		NameRu:        rest.NameRu,
		ReservationAt: res.ReservationAt,
		Status:        res.Status,
	}
	if err := d.Sender.Send(ctx, tokens, payload, d.TTLSeconds(res.ReservationAt)); err != nil {
		log.Printf("notify: reservation %d customer push failed: %v", res.ID, err)
	}
}
