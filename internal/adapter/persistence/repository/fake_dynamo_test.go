package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory table keyed by "id". UpdateItem applies
// "SET #a = :a" pairs and honours a "#status = :pending" condition; Query
// matches one equality key; Scan understands the pending/created_at filter
// used by the expiry job.
type fakeDynamo struct {
	mu         sync.Mutex
	order      []string
	items      map[string]map[string]types.AttributeValue
	conditions []string
	lastQuery  *dynamodb.QueryInput
	lastScan   *dynamodb.ScanInput
	err        error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(av map[string]types.AttributeValue) string {
	if s, ok := av["id"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func strAttr(av map[string]types.AttributeValue, name string) string {
	if s, ok := av[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func copyItem(in map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	id := keyOf(in.Item)
	if _, exists := f.items[id]; exists && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("item exists")}
	}
	if _, exists := f.items[id]; !exists {
		f.order = append(f.order, id)
	}
	f.items[id] = copyItem(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.items[keyOf(in.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(it)}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cond := aws.ToString(in.ConditionExpression)
	f.conditions = append(f.conditions, cond)
	id := keyOf(in.Key)
	it, ok := f.items[id]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
	}
	if strings.Contains(cond, "#status = :pending") {
		want := in.ExpressionAttributeValues[":pending"].(*types.AttributeValueMemberS).Value
		if strAttr(it, "status") != want {
			cfe := &types.ConditionalCheckFailedException{Message: aws.String("status")}
			if in.ReturnValuesOnConditionCheckFailure == types.ReturnValuesOnConditionCheckFailureAllOld {
				cfe.Item = copyItem(it)
			}
			return nil, cfe
		}
	}
	for placeholder, attr := range in.ExpressionAttributeNames {
		if v, ok := in.ExpressionAttributeValues[":"+strings.TrimPrefix(placeholder, "#")]; ok {
			it[attr] = v
		}
	}
	return &dynamodb.UpdateItemOutput{Attributes: copyItem(it)}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.lastQuery = in
	cond := aws.ToString(in.KeyConditionExpression)
	parts := strings.SplitN(cond, " = ", 2)
	attr, placeholder := parts[0], parts[1]
	want := in.ExpressionAttributeValues[placeholder].(*types.AttributeValueMemberS).Value

	out := &dynamodb.QueryOutput{}
	for _, id := range f.order {
		if strAttr(f.items[id], attr) == want {
			out.Items = append(out.Items, copyItem(f.items[id]))
		}
	}
	return out, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.lastScan = in
	status := in.ExpressionAttributeValues[":pending"].(*types.AttributeValueMemberS).Value
	before := in.ExpressionAttributeValues[":before"].(*types.AttributeValueMemberS).Value

	out := &dynamodb.ScanOutput{}
	for _, id := range f.order {
		it := f.items[id]
		if strAttr(it, "status") == status && strAttr(it, "created_at") < before {
			out.Items = append(out.Items, copyItem(it))
		}
	}
	return out, nil
}
