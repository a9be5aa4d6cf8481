// storage/firestore.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const reportsCollection = "ocr_reports"

var ErrReportNotFound = errors.New("report not found")

// Report records one extraction attempt. It never holds the document bytes or
// the base64 payload, only their digests.
type Report struct {
	SHA1       string    `firestore:"SHA1" json:"sha1"`
	MD5        string    `firestore:"MD5" json:"md5"`
	Size       int       `firestore:"Size" json:"size"`
	Source     string    `firestore:"Source" json:"source"`
	FileName   string    `firestore:"FileName" json:"file_name,omitempty"`
	Pages      int       `firestore:"Pages" json:"pages"`
	TextLength int       `firestore:"TextLength" json:"text_length"`
	// Status is "ok" or "failed"; ErrorCode is set when failed.
	Status     string    `firestore:"Status" json:"status"`
	ErrorCode  string    `firestore:"ErrorCode" json:"error_code,omitempty"`
	CreatedAt  time.Time `firestore:"CreatedAt" json:"created_at"`
}

// FirestoreReports keeps one Report per document, keyed by its SHA-1.
type FirestoreReports struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreReports(client *firestore.Client) *FirestoreReports {
	return &FirestoreReports{client: client, collection: reportsCollection}
}

func (s *FirestoreReports) Save(ctx context.Context, r Report) error {
	if r.SHA1 == "" {
		return errors.New("report has no sha1")
	}
	_, err := s.client.Collection(s.collection).Doc(r.SHA1).Set(ctx, r)
	return err
}

func (s *FirestoreReports) Get(ctx context.Context, sha1 string) (Report, error) {
	doc, err := s.client.Collection(s.collection).Doc(sha1).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Report{}, ErrReportNotFound
		}
		return Report{}, err
	}
	var r Report
	if err := doc.DataTo(&r); err != nil {
		return Report{}, fmt.Errorf("failed to decode report %s: %w", sha1, err)
	}
	return r, nil
}

func (s *FirestoreReports) Exists(ctx context.Context, sha1 string) (bool, error) {
	_, err := s.Get(ctx, sha1)
	if errors.Is(err, ErrReportNotFound) {
		return false, nil
	}
	return err == nil, err
}

// List returns the newest reports first.
func (s *FirestoreReports) List(ctx context.Context, limit int) ([]Report, error) {
	iter := s.client.Collection(s.collection).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var results []Report
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read reports: %w", err)
		}
		var r Report
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("failed to decode report %s: %w", doc.Ref.ID, err)
		}
		results = append(results, r)
	}
	return results, nil
}
