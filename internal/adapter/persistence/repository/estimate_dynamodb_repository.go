package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	DefaultEstimatesTableName = "estimates"
	estimatesUserIDIndex      = "user_id-index"

	pendingCondition = "attribute_exists(#id) AND #status = :pending"
)

type customerItem struct {
	Name    string `dynamodbav:"name,omitempty"`
	Company string `dynamodbav:"company,omitempty"`
	Email   string `dynamodbav:"email,omitempty"`
	Phone   string `dynamodbav:"phone,omitempty"`
}

type estimateItem struct {
	ID         string              `dynamodbav:"id"`
	UserID     string              `dynamodbav:"user_id"`
	Selections map[string][]string `dynamodbav:"selections"`
	GroupsJSON string              `dynamodbav:"groups_json"`
	Customer   customerItem        `dynamodbav:"customer"`
	Status     string              `dynamodbav:"status"`
	CreatedAt  string              `dynamodbav:"created_at"`
	UpdatedAt  string              `dynamodbav:"updated_at"`
}

// EstimateDynamoRepository persists Estimate entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: user_id-index (PK: user_id)
//
// Line items are stored as a JSON document in groups_json; totals are never
// stored.
type EstimateDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb dynamoAPI, tableName string) *EstimateDynamoRepository {
	if tableName == "" {
		tableName = DefaultEstimatesTableName
	}
	return &EstimateDynamoRepository{
		ddb:       ddb,
		tableName: tableName,
		now:       time.Now,
	}
}

func (r *EstimateDynamoRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	it, err := toEstimateItem(e)
	if err != nil {
		return entities.Estimate{}, err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Estimate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	if len(out.Item) == 0 {
		return entities.Estimate{}, nil
	}
	return unmarshalEstimate(out.Item)
}

func (r *EstimateDynamoRepository) ListByUserID(ctx context.Context, userID string) ([]entities.Estimate, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(estimatesUserIDIndex),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})

	out := make([]entities.Estimate, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		if out, err = appendEstimates(out, page.Items); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListPendingCreatedBefore scans the table; the expiry job runs rarely and
// there is no index on status.
func (r *EstimateDynamoRepository) ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]entities.Estimate, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#status = :pending AND #created_at < :before"),
		ExpressionAttributeNames: map[string]string{
			"#status":     "status",
			"#created_at": "created_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(entities.EstimateStatusPending)},
			":before":  &types.AttributeValueMemberS{Value: formatTime(before)},
		},
	})

	out := make([]entities.Estimate, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		if out, err = appendEstimates(out, page.Items); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *EstimateDynamoRepository) UpdateStatusByID(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		}
		return expr, vals, names
	})
}

func (r *EstimateDynamoRepository) UpdateGroupsByID(ctx context.Context, id string, groups []entities.InvoiceGroup) (entities.Estimate, error) {
	raw, err := json.Marshal(groups)
	if err != nil {
		return entities.Estimate{}, fmt.Errorf("marshal groups: %w", err)
	}
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #groups_json = :groups_json, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":groups_json": &types.AttributeValueMemberS{Value: string(raw)},
			":updated_at":  &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#groups_json": "groups_json",
			"#updated_at":  "updated_at",
		}
		return expr, vals, names
	})
}

// update applies a SET expression to a pending estimate.
func (r *EstimateDynamoRepository) update(
	ctx context.Context,
	id string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Estimate, error) {
	updateExpr, values, names := build(formatTime(r.now()))
	values[":pending"] = &types.AttributeValueMemberS{Value: string(entities.EstimateStatusPending)}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:                 aws.String(pendingCondition),
		UpdateExpression:                    aws.String(updateExpr),
		ExpressionAttributeValues:           values,
		ExpressionAttributeNames:            mergeNames(names, map[string]string{"#id": "id", "#status": "status"}),
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			// The old item comes back only when it exists.
			if len(cfe.Item) == 0 {
				return entities.Estimate{}, nil
			}
			return entities.Estimate{}, interfaces.ErrEstimateNotPending
		}
		return entities.Estimate{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Estimate{}, nil
	}
	return unmarshalEstimate(out.Attributes)
}

func appendEstimates(out []entities.Estimate, items []map[string]types.AttributeValue) ([]entities.Estimate, error) {
	for _, raw := range items {
		e, err := unmarshalEstimate(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func unmarshalEstimate(av map[string]types.AttributeValue) (entities.Estimate, error) {
	var it estimateItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it)
}

func toEstimateItem(e entities.Estimate) (estimateItem, error) {
	groups := e.Groups
	if groups == nil {
		groups = []entities.InvoiceGroup{}
	}
	raw, err := json.Marshal(groups)
	if err != nil {
		return estimateItem{}, fmt.Errorf("marshal groups: %w", err)
	}
	return estimateItem{
		ID:         e.ID,
		UserID:     e.UserID,
		Selections: map[string][]string(e.Selections),
		GroupsJSON: string(raw),
		Customer: customerItem{
			Name:    e.Customer.Name,
			Company: e.Customer.Company,
			Email:   e.Customer.Email,
			Phone:   e.Customer.Phone,
		},
		Status:    string(e.Status),
		CreatedAt: formatTime(e.CreatedAt),
		UpdatedAt: formatTime(e.UpdatedAt),
	}, nil
}

func fromEstimateItem(it estimateItem) (entities.Estimate, error) {
	var groups []entities.InvoiceGroup
	if it.GroupsJSON != "" {
		if err := json.Unmarshal([]byte(it.GroupsJSON), &groups); err != nil {
			return entities.Estimate{}, fmt.Errorf("unmarshal groups of estimate %s: %w", it.ID, err)
		}
	}
	return entities.Estimate{
		ID:         it.ID,
		UserID:     it.UserID,
		Selections: entities.Selections(it.Selections),
		Groups:     groups,
		Customer: entities.Customer{
			Name:    it.Customer.Name,
			Company: it.Customer.Company,
			Email:   it.Customer.Email,
			Phone:   it.Customer.Phone,
		},
		Status:    entities.EstimateStatus(it.Status),
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}, nil
}
