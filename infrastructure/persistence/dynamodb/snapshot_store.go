package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"medscore-backend/domain/params"
	pkgerrors "medscore-backend/pkg/errors"
	"medscore-backend/pkg/utils"
)

const snapshotSK = "SNAPSHOT"

// snapshotRecord stores one owner's full parameter snapshot as a JSON blob.
// Last write wins; there is no versioning.
type snapshotRecord struct {
	PK        string `dynamodbav:"PK"` // PARAMS#<owner>
	SK        string `dynamodbav:"SK"` // SNAPSHOT
	Body      string `dynamodbav:"Body"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// SnapshotStore implements ports.ParameterSnapshotStore on DynamoDB
type SnapshotStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSnapshotStore creates the store
func NewSnapshotStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{client: client, tableName: tableName, logger: logger}
}

func snapshotPK(ownerID string) string {
	return fmt.Sprintf("PARAMS#%s", ownerID)
}

// ReadAll implements ports.ParameterSnapshotStore
func (s *SnapshotStore) ReadAll(ctx context.Context, ownerID string) (params.Snapshot, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": snapshotPK(ownerID),
		"SK": snapshotSK,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling snapshot key: %w", err)
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get snapshot", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var record snapshotRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot record: %w", err)
	}

	var snapshot params.Snapshot
	if err := json.Unmarshal([]byte(record.Body), &snapshot); err != nil {
		return nil, fmt.Errorf("snapshot for %s is corrupt: %w", ownerID, err)
	}
	return snapshot, nil
}

// WriteAll implements ports.ParameterSnapshotStore
func (s *SnapshotStore) WriteAll(ctx context.Context, ownerID string, snapshot params.Snapshot) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshalling snapshot for %s: %w", ownerID, err)
	}

	record := snapshotRecord{
		PK:        snapshotPK(ownerID),
		SK:        snapshotSK,
		Body:      string(body),
		UpdatedAt: utils.NowRFC3339(),
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshalling snapshot record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	}); err != nil {
		return pkgerrors.NewDatabaseError("put snapshot", err)
	}

	s.logger.Debug("Snapshot written",
		zap.String("ownerID", ownerID),
		zap.Int("parameters", len(snapshot)),
	)
	return nil
}
