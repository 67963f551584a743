package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/bentopay/auth-api/internal/domain"
)

// AccountClient is the subset of the DynamoDB API the account repo uses.
// *dynamodb.Client satisfies it.
type AccountClient interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// AccountRepo provides typed DynamoDB operations for the accounts table.
// PK: account_id. GSIs: email-index, phone-index, unique_id-index.
type AccountRepo struct {
	client    AccountClient
	tableName string
}

func NewAccountRepo(client AccountClient, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName}
}

func (r *AccountRepo) Put(ctx context.Context, a *domain.Account) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("account_id", accountID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.queryGSI(ctx, "email-index", "email", email)
}

func (r *AccountRepo) GetByPhone(ctx context.Context, phoneNumber string) (*domain.Account, error) {
	return r.queryGSI(ctx, "phone-index", "phone_number", phoneNumber)
}

func (r *AccountRepo) GetByUniqueID(ctx context.Context, uniqueID, country string) (*domain.Account, error) {
	a, err := r.queryGSI(ctx, "unique_id-index", "unique_id", uniqueID)
	if err != nil {
		return nil, err
	}
	if country != "" && a.Country != country {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

// GetByEmailOrPhone resolves the sign-in username, which may be either.
// Soft-deleted accounts are invisible to every lookup here.
func (r *AccountRepo) GetByEmailOrPhone(ctx context.Context, username string) (*domain.Account, error) {
	if a, err := r.GetByEmail(ctx, username); err == nil {
		return a, nil
	}
	return r.GetByPhone(ctx, username)
}

func (r *AccountRepo) Update(ctx context.Context, accountID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("account_id", accountID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *AccountRepo) SoftDelete(ctx context.Context, accountID string) error {
	now := time.Now().UTC()
	return r.Update(ctx, accountID, map[string]interface{}{fieldDeleted: true, fieldDeletedAt: now})
}

// TxPut builds a transactional put of the full account record. Used when the
// account must commit atomically with its profile and settings.
func (r *AccountRepo) TxPut(a *domain.Account) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshal account: %w", err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(r.tableName),
			Item:      item,
		},
	}, nil
}

// TxUpdate builds a transactional partial update of an account.
func (r *AccountRepo) TxUpdate(accountID string, updates map[string]interface{}) (types.TransactWriteItem, error) {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:                 aws.String(r.tableName),
			Key:                       strKey("account_id", accountID),
			UpdateExpression:          aws.String(ue.Expr),
			ExpressionAttributeNames:  ue.Names,
			ExpressionAttributeValues: ue.Values,
		},
	}, nil
}

// queryGSI returns the first non-deleted account matching the GSI key. The
// filter runs after each page is read, so a soft-deleted record sharing the
// key must not end the search; pages are walked until a live item turns up
// or the key range is exhausted.
func (r *AccountRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#a = :v"),
		FilterExpression:       aws.String("#d = :f"),
		ExpressionAttributeNames: map[string]string{
			"#a": attr,
			"#d": fieldDeleted,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	}
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		if len(out.Items) > 0 {
			var a domain.Account
			if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
				return nil, err
			}
			return &a, nil
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
