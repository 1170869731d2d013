package records

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/dynamo"
	"github.com/google/uuid"
)

const recordPrefix = "RECORD#"

type recordItem struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	ID         string    `dynamodbav:"id"`
	UserID     string    `dynamodbav:"user_id"`
	Ciphertext []byte    `dynamodbav:"ciphertext"`
	Nonce      []byte    `dynamodbav:"nonce"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
	UpdatedAt  time.Time `dynamodbav:"updated_at"`
}

func (i recordItem) model() *models.Record {
	return &models.Record{
		ID:         i.ID,
		UserID:     i.UserID,
		Ciphertext: i.Ciphertext,
		Nonce:      i.Nonce,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

func ownerPK(userID string) string { return "USER#" + userID }

// DynamoDBRepository keeps records under their owner's partition, so every
// key lookup is scoped to the owner.
type DynamoDBRepository struct {
	api   dynamo.API
	table string
	now   func() time.Time
}

func NewDynamoDBRepository(api dynamo.API, table string) *DynamoDBRepository {
	return &DynamoDBRepository{
		api:   api,
		table: table,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *DynamoDBRepository) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = r.now()
	rec.UpdatedAt = rec.CreatedAt

	av, err := attributevalue.MarshalMap(recordItem{
		PK:         ownerPK(rec.UserID),
		SK:         recordPrefix + rec.ID,
		ID:         rec.ID,
		UserID:     rec.UserID,
		Ciphertext: rec.Ciphertext,
		Nonce:      rec.Nonce,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// ListByUser queries the owner's partition and orders by creation time, newest first.
func (r *DynamoDBRepository) ListByUser(ctx context.Context, userID string) ([]*models.Record, error) {
	p := dynamodb.NewQueryPaginator(r.api, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: ownerPK(userID)},
			":sk": &types.AttributeValueMemberS{Value: recordPrefix},
		},
		ConsistentRead: aws.Bool(true),
	})

	result := make([]*models.Record, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query records: %w", err)
		}
		var items []recordItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
		for _, it := range items {
			result = append(result, it.model())
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *DynamoDBRepository) Update(ctx context.Context, rec *models.Record) (*models.Record, error) {
	now, err := attributevalue.Marshal(r.now())
	if err != nil {
		return nil, err
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 dynamo.Key(ownerPK(rec.UserID), recordPrefix+rec.ID),
		UpdateExpression:    aws.String("SET ciphertext = :ct, nonce = :n, updated_at = :u"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ct": &types.AttributeValueMemberB{Value: rec.Ciphertext},
			":n":  &types.AttributeValueMemberB{Value: rec.Nonce},
			":u":  now,
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, mapConditionErr(err)
	}

	var item recordItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return item.model(), nil
}

func (r *DynamoDBRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table),
		Key:                 dynamo.Key(ownerPK(userID), recordPrefix+id),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		return mapConditionErr(err)
	}
	return nil
}

func mapConditionErr(err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
