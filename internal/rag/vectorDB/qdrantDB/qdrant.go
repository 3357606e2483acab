package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/domain/commonModels"
	"github.com/Ollennjj/stoa-api/internal/rag/ragErrors"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingDimension)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQuadrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, config.VectorCollectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", config.VectorCollectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) CreateCollection(ctx context.Context, collectionName string) error {
	return createCollection(ctx, db.QObj, collectionName)
}

// UpsertBatch writes one batch of vectors, overwriting points that share
// an id. Qdrant only takes UUID/uint64 point ids, so the composite
// string id is mapped to a deterministic UUIDv5 and kept verbatim in the
// payload - re-ingestion still lands on the same points.
func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, vectors []commonModels.IndexedVector) error {
	qdrantPoints := make([]*qdrant.PointStruct, len(vectors))

	for i, v := range vectors {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointId(v.Id)),
			Vectors: qdrant.NewVectors(v.Values...),
			Payload: qdrant.NewValueMap(map[string]any{
				"id":          v.Id,
				"pageContent": v.Metadata.PageContent,
				"userId":      v.Metadata.UserId,
				"dataKey":     v.Metadata.DataKey,
				"uniqueId":    v.Metadata.UniqueId,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		logUnavailable(err)
		return fmt.Errorf("%w: %v", ragErrors.ErrIndexWrite, err)
	}

	return nil
}

func (db *ClientHolder) Query(ctx context.Context, collectionName string, vector []float32, topK uint64, scope commonModels.AccessScope) ([]commonModels.RetrievalMatch, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(topK),
		Filter:         BuildScopeFilter(scope),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		logUnavailable(err)
		return nil, fmt.Errorf("%w: %v", ragErrors.ErrRetrieval, err)
	}

	matches := make([]commonModels.RetrievalMatch, 0, len(result))
	for _, hit := range result {
		matches = append(matches, commonModels.RetrievalMatch{
			Score: hit.Score,
			Metadata: commonModels.VectorMetadata{
				PageContent: hit.Payload["pageContent"].GetStringValue(),
				UserId:      hit.Payload["userId"].GetStringValue(),
				DataKey:     hit.Payload["dataKey"].GetStringValue(),
				UniqueId:    hit.Payload["uniqueId"].GetStringValue(),
			},
		})
	}

	loggr.Debug("Query finished", "matches", len(matches))
	return matches, nil
}

// BuildScopeFilter expresses "visible to this caller": the vector's
// userId equals the caller's, or its dataKey belongs to a global corpus.
func BuildScopeFilter(scope commonModels.AccessScope) *qdrant.Filter {
	return &qdrant.Filter{
		Should: []*qdrant.Condition{
			qdrant.NewMatch("userId", scope.UserId),
			qdrant.NewMatchKeywords("dataKey", scope.DataKeys...),
		},
	}
}

// PointId maps a composite vector id onto the UUID space qdrant accepts.
// Same composite id, same point - upserts overwrite.
func PointId(compositeId string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(compositeId)).String()
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}

func logUnavailable(err error) {
	if s, ok := status.FromError(err); ok && s.Code() == codes.Unavailable {
		logger.Error("Qdrant is unreachable", "error", err)
	}
}
