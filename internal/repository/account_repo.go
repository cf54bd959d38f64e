package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/answerly/answerly-api/internal/models"
)

// ErrAccountMissing indicates no record exists for the requested key.
var ErrAccountMissing = errors.New("account record not found")

// AccountRepository provides access to account records in the key-value
// store. The table key is (email, role); id lookups scan the table because
// the schema carries no secondary index.
type AccountRepository interface {
	GetByEmailRole(ctx context.Context, email, role string) (models.Account, error)
	Put(ctx context.Context, account models.Account) error
	GetByID(ctx context.Context, id string) (models.Account, error)
	ListByRole(ctx context.Context, role string) ([]models.Account, error)
}

type accountRepository struct {
	client *dynamodb.Client
	table  string
}

// NewAccountRepository constructs an account repository over DynamoDB.
func NewAccountRepository(client *dynamodb.Client, table string) AccountRepository {
	return &accountRepository{client: client, table: table}
}

func (r *accountRepository) GetByEmailRole(ctx context.Context, email, role string) (models.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
			"role":  &types.AttributeValueMemberS{Value: role},
		},
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("get account: %w", err)
	}
	if len(out.Item) == 0 {
		return models.Account{}, ErrAccountMissing
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(out.Item, &account); err != nil {
		return models.Account{}, fmt.Errorf("unmarshal account: %w", err)
	}

	return account, nil
}

func (r *accountRepository) Put(ctx context.Context, account models.Account) error {
	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put account: %w", err)
	}

	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (models.Account, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: id},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return models.Account{}, fmt.Errorf("scan accounts: %w", err)
		}
		if len(page.Items) == 0 {
			continue
		}

		var account models.Account
		if err := attributevalue.UnmarshalMap(page.Items[0], &account); err != nil {
			return models.Account{}, fmt.Errorf("unmarshal account: %w", err)
		}
		return account, nil
	}

	return models.Account{}, ErrAccountMissing
}

func (r *accountRepository) ListByRole(ctx context.Context, role string) ([]models.Account, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("#role = :role"),
		ExpressionAttributeNames: map[string]string{
			"#role": "role",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":role": &types.AttributeValueMemberS{Value: role},
		},
	})

	accounts := make([]models.Account, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan accounts: %w", err)
		}

		var batch []models.Account
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal accounts: %w", err)
		}
		accounts = append(accounts, batch...)
	}

	return accounts, nil
}
