// Package dynamodb implements the DynamoDB persistence backend on a single
// table. Definitions live under PK DEF#<kind>, parameter snapshots under
// PK PARAMS#<owner>.
package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"medscore-backend/application/ports"
	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
	"medscore-backend/pkg/utils"
)

// definitionRecord is the stored shape of one definition. The definition
// body is kept as a JSON blob; DynamoDB only needs the key attributes.
type definitionRecord struct {
	PK        string `dynamodbav:"PK"` // DEF#<kind>
	SK        string `dynamodbav:"SK"` // <definition id>
	Kind      string `dynamodbav:"Kind"`
	Body      string `dynamodbav:"Body"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// DefinitionRepository implements ports.DefinitionRepository on DynamoDB
type DefinitionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewDefinitionRepository creates the repository
func NewDefinitionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *DefinitionRepository {
	return &DefinitionRepository{client: client, tableName: tableName, logger: logger}
}

func definitionPK(kind ports.DefinitionKind) string {
	return fmt.Sprintf("DEF#%s", kind)
}

// LoadDefinitions implements ports.DefinitionSource
func (r *DefinitionRepository) LoadDefinitions(ctx context.Context) ([]*catalog.AlgorithmDefinition, []*catalog.CalculatorDefinition, error) {
	var algorithms []*catalog.AlgorithmDefinition
	if err := r.queryKind(ctx, ports.KindAlgorithm, func(body []byte) error {
		var def catalog.AlgorithmDefinition
		if err := json.Unmarshal(body, &def); err != nil {
			return err
		}
		algorithms = append(algorithms, &def)
		return nil
	}); err != nil {
		return nil, nil, err
	}

	var calculators []*catalog.CalculatorDefinition
	if err := r.queryKind(ctx, ports.KindCalculator, func(body []byte) error {
		var def catalog.CalculatorDefinition
		if err := json.Unmarshal(body, &def); err != nil {
			return err
		}
		calculators = append(calculators, &def)
		return nil
	}); err != nil {
		return nil, nil, err
	}

	return algorithms, calculators, nil
}

func (r *DefinitionRepository) queryKind(ctx context.Context, kind ports.DefinitionKind, visit func(body []byte) error) error {
	keyCond := expression.Key("PK").Equal(expression.Value(definitionPK(kind)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return fmt.Errorf("building %s query: %w", kind, err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 &r.tableName,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return pkgerrors.NewDatabaseError("query definitions", err)
		}
		for _, item := range page.Items {
			var record definitionRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return fmt.Errorf("unmarshalling %s record: %w", kind, err)
			}
			if err := visit([]byte(record.Body)); err != nil {
				return pkgerrors.NewDefinitionError(fmt.Sprintf(
					"stored %s %q has a corrupt body", kind, record.SK)).WithCause(err)
			}
		}
	}
	return nil
}

// SaveAlgorithm implements ports.DefinitionRepository
func (r *DefinitionRepository) SaveAlgorithm(ctx context.Context, def *catalog.AlgorithmDefinition) error {
	return r.putDefinition(ctx, ports.KindAlgorithm, def.ID, def)
}

// SaveCalculator implements ports.DefinitionRepository
func (r *DefinitionRepository) SaveCalculator(ctx context.Context, def *catalog.CalculatorDefinition) error {
	return r.putDefinition(ctx, ports.KindCalculator, def.ID, def)
}

func (r *DefinitionRepository) putDefinition(ctx context.Context, kind ports.DefinitionKind, id string, def interface{}) error {
	body, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshalling %s %s: %w", kind, id, err)
	}

	record := definitionRecord{
		PK:        definitionPK(kind),
		SK:        id,
		Kind:      string(kind),
		Body:      string(body),
		UpdatedAt: utils.NowRFC3339(),
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshalling %s record: %w", kind, err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	}); err != nil {
		return pkgerrors.NewDatabaseError("put definition", err)
	}

	r.logger.Info("Definition saved",
		zap.String("kind", string(kind)),
		zap.String("definitionID", id),
	)
	return nil
}

// DeleteDefinition implements ports.DefinitionRepository
func (r *DefinitionRepository) DeleteDefinition(ctx context.Context, kind ports.DefinitionKind, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": definitionPK(kind),
		"SK": id,
	})
	if err != nil {
		return fmt.Errorf("marshalling delete key: %w", err)
	}

	condition := "attribute_exists(PK)"
	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &r.tableName,
		Key:                 key,
		ConditionExpression: &condition,
	}); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError(fmt.Sprintf("%s %q", kind, id))
		}
		return pkgerrors.NewDatabaseError("delete definition", err)
	}

	r.logger.Info("Definition deleted",
		zap.String("kind", string(kind)),
		zap.String("definitionID", id),
	)
	return nil
}
