package users

import (
	"context"
	"errors"
	"fmt"
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

const (
	profileSK = "PROFILE"
	emailSK   = "EMAIL"
)

type userItem struct {
	PK             string    `dynamodbav:"PK"`
	SK             string    `dynamodbav:"SK"`
	ID             string    `dynamodbav:"id"`
	Email          string    `dynamodbav:"email"`
	Salt           []byte    `dynamodbav:"salt"`
	CredentialHash []byte    `dynamodbav:"credential_hash"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
}

// emailItem reserves an email address and points at the owning profile.
type emailItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	UserID string `dynamodbav:"user_id"`
}

func userPK(id string) string     { return "USER#" + id }
func emailPK(email string) string { return "EMAIL#" + email }

// DynamoDBRepository stores accounts in a single DynamoDB table. The email
// reservation and the profile are written in one transaction.
type DynamoDBRepository struct {
	api   dynamo.API
	table string
}

func NewDynamoDBRepository(api dynamo.API, table string) *DynamoDBRepository {
	return &DynamoDBRepository{api: api, table: table}
}

func (r *DynamoDBRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	profile, err := attributevalue.MarshalMap(userItem{
		PK:             userPK(user.ID),
		SK:             profileSK,
		ID:             user.ID,
		Email:          user.Email,
		Salt:           user.Salt,
		CredentialHash: user.CredentialHash,
		CreatedAt:      user.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	reservation, err := attributevalue.MarshalMap(emailItem{
		PK:     emailPK(user.Email),
		SK:     emailSK,
		UserID: user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email: %w", err)
	}

	cond := aws.String("attribute_not_exists(PK)")
	_, err = r.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{TableName: aws.String(r.table), Item: reservation, ConditionExpression: cond}},
			{Put: &types.Put{TableName: aws.String(r.table), Item: profile, ConditionExpression: cond}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *DynamoDBRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       dynamo.Key(emailPK(email), emailSK),
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrorNotFound
	}

	var item emailItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email: %w", err)
	}

	return r.GetByID(ctx, item.UserID)
}

func (r *DynamoDBRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            dynamo.Key(userPK(id), profileSK),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrorNotFound
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &models.User{
		ID:             item.ID,
		Email:          item.Email,
		Salt:           item.Salt,
		CredentialHash: item.CredentialHash,
		CreatedAt:      item.CreatedAt,
	}, nil
}
