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

// SettingsRepo covers both the settings and security-settings tables; they
// are created together at sign-up and read together at sign-in.
type SettingsRepo struct {
	client        *dynamodb.Client
	settingsTable string
	securityTable string
}

func NewSettingsRepo(client *dynamodb.Client, settingsTable, securityTable string) *SettingsRepo {
	return &SettingsRepo{client: client, settingsTable: settingsTable, securityTable: securityTable}
}

func (r *SettingsRepo) GetByAccount(ctx context.Context, accountID string) (*domain.Settings, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.settingsTable),
		IndexName:                 aws.String("account_id-index"),
		KeyConditionExpression:    aws.String("account_id = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: accountID}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("settings not found: %w", domain.ErrNotFound)
	}
	var s domain.Settings
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepo) GetSecurityByAccount(ctx context.Context, accountID string) (*domain.SecuritySettings, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.securityTable),
		IndexName:                 aws.String("account_id-index"),
		KeyConditionExpression:    aws.String("account_id = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: accountID}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("security settings not found: %w", domain.ErrNotFound)
	}
	var s domain.SecuritySettings
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSecurity applies a partial update to the security-settings record.
// Used by the MFA enable/disable path.
func (r *SettingsRepo) UpdateSecurity(ctx context.Context, securityID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.securityTable),
		Key:                       strKey("security_id", securityID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// TxPut builds transactional puts for a settings record.
func (r *SettingsRepo) TxPut(s *domain.Settings) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshal settings: %w", err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{TableName: aws.String(r.settingsTable), Item: item},
	}, nil
}

// TxPutSecurity builds a transactional put for a security-settings record.
func (r *SettingsRepo) TxPutSecurity(s *domain.SecuritySettings) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshal security settings: %w", err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{TableName: aws.String(r.securityTable), Item: item},
	}, nil
}
