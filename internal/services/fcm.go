package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// NewFCMServiceFromBase64 creates a new FCM service instance from
// base64-encoded credentials. Useful for cloud deployments where you
// can't upload files easily.
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	ctx := context.Background()

	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(credentialsJSON)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendScheduleAssignedNotification tells a driver they were assigned a
// pickup request.
func (s *FCMService) SendScheduleAssignedNotification(token, scheduleID, date, location string) error {
	return s.send(&messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "New Pickup Assigned!",
			Body:  fmt.Sprintf("Pickup at %s on %s.", location, date),
		},
		Data: map[string]string{
			"type":        "schedule_assigned",
			"schedule_id": scheduleID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	})
}

// SendBinAssignedNotification tells a driver a bin was added to their
// round.
func (s *FCMService) SendBinAssignedNotification(token, binName string) error {
	return s.send(&messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Bin Assigned",
			Body:  fmt.Sprintf("Bin %q was assigned to you.", binName),
		},
		Data: map[string]string{
			"type": "bin_assigned",
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	})
}

// SendComplaintResolvedNotification tells a citizen their complaint
// was resolved.
func (s *FCMService) SendComplaintResolvedNotification(token, complaintID string) error {
	return s.send(&messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Complaint Resolved",
			Body:  "Your complaint has been resolved. Thank you for reporting!",
		},
		Data: map[string]string{
			"type":         "complaint_resolved",
			"complaint_id": complaintID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	})
}

func (s *FCMService) send(message *messaging.Message) error {
	response, err := s.client.Send(context.Background(), message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}
	log.Printf("✅ FCM notification sent: %s", response)
	return nil
}
