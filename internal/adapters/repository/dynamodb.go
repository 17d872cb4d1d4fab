package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/pkg/logger"
)

const (
	partitionAttr      = "pk"
	defaultPartition   = "items"
	dynamoBatchSize    = 25
	maxBatchRetries    = 5
	batchRetryBaseWait = 50 * time.Millisecond
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoConfig selects the table and connection used by OpenDynamo.
type DynamoConfig struct {
	Table     string
	Partition string
	Region    string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// DynamoStore keeps every item under one partition key value, sorted by id.
type DynamoStore struct {
	client    DynamoAPI
	table     string
	partition string
	logger    logger.Logger
}

// NewDynamoStore wraps an existing client.
func NewDynamoStore(client DynamoAPI, table, partition string, opts ...Option) (*DynamoStore, error) {
	if client == nil {
		return nil, fmt.Errorf("dynamodb client is required")
	}
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("dynamodb table is required")
	}
	if strings.TrimSpace(partition) == "" {
		partition = defaultPartition
	}
	o := storeOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &DynamoStore{client: client, table: table, partition: partition, logger: o.logger}, nil
}

// OpenDynamo builds a client from the default AWS credential chain.
func OpenDynamo(ctx context.Context, cfg DynamoConfig, opts ...Option) (*DynamoStore, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewDynamoStore(client, cfg.Table, cfg.Partition, opts...)
}

func (s *DynamoStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		partitionAttr: &types.AttributeValueMemberS{Value: s.partition},
		"id":          &types.AttributeValueMemberS{Value: id},
	}
}

func (s *DynamoStore) partitionQuery() *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:                aws.String(s.table),
		KeyConditionExpression:   aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{"#pk": partitionAttr},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: s.partition},
		},
	}
}

func (s *DynamoStore) LoadItems(ctx context.Context) ([]model.Item, error) {
	var out []model.Item
	p := dynamodb.NewQueryPaginator(s.client, s.partitionQuery())
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query items: %w", err)
		}
		var batch []model.Item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		out = append(out, batch...)
	}
	sortByID(out)
	return out, nil
}

func (s *DynamoStore) SaveItems(ctx context.Context, items []model.Item) error {
	if err := validateBatch(items); err != nil {
		return err
	}
	requests := make([]types.WriteRequest, 0, len(items))
	for _, it := range items {
		av, err := attributevalue.MarshalMap(persisted(it))
		if err != nil {
			return fmt.Errorf("encode item %s: %w", it.ID, err)
		}
		av[partitionAttr] = &types.AttributeValueMemberS{Value: s.partition}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	for start := 0; start < len(requests); start += dynamoBatchSize {
		end := min(start+dynamoBatchSize, len(requests))
		if err := s.writeBatch(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *DynamoStore) writeBatch(ctx context.Context, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.table: batch}
	for attempt := 0; ; attempt++ {
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("batch write: %w", err)
		}
		if len(out.UnprocessedItems[s.table]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
		if attempt >= maxBatchRetries {
			return fmt.Errorf("%w: %d items", ErrUnprocessed, len(pending[s.table]))
		}
		s.logger.Warn(ctx, "retrying unprocessed items",
			logger.Int("count", len(pending[s.table])), logger.Int("attempt", attempt+1))
		wait := batchRetryBaseWait << attempt
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (s *DynamoStore) GetItem(ctx context.Context, id string) (model.Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		return model.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return model.Item{}, ErrNotFound
	}
	var it model.Item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return model.Item{}, fmt.Errorf("decode item %s: %w", id, err)
	}
	return it, nil
}

func (s *DynamoStore) UpdateItem(ctx context.Context, id string, patch model.Patch) (model.Item, error) {
	names := map[string]string{"#id": "id"}
	values := map[string]types.AttributeValue{}
	var sets []string

	if patch.Team != nil {
		names["#team"] = "team"
		values[":team"] = &types.AttributeValueMemberS{Value: *patch.Team}
		sets = append(sets, "#team = :team")
	}
	fields := make([]model.Field, 0, len(patch.Values))
	for f := range patch.Values {
		if f.Valid() && f != model.Value11 {
			fields = append(fields, f)
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	for _, f := range fields {
		name := f.String()
		names["#"+name] = name
		v, err := attributevalue.Marshal(patch.Values[f])
		if err != nil {
			return model.Item{}, fmt.Errorf("encode %s: %w", name, err)
		}
		values[":"+name] = v
		sets = append(sets, fmt.Sprintf("#%s = :%s", name, name))
	}
	if len(sets) == 0 {
		return s.GetItem(ctx, id)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(id),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return model.Item{}, ErrNotFound
		}
		return model.Item{}, fmt.Errorf("update item %s: %w", id, err)
	}
	var it model.Item
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return model.Item{}, fmt.Errorf("decode item %s: %w", id, err)
	}
	return it, nil
}

func (s *DynamoStore) Count(ctx context.Context) (int, error) {
	in := s.partitionQuery()
	in.Select = types.SelectCount
	total := 0
	p := dynamodb.NewQueryPaginator(s.client, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("count items: %w", err)
		}
		total += int(page.Count)
	}
	return total, nil
}
