// Package mongo implements tekmiz.Repository on MongoDB.
//
// Durability contract: the client is configured with majority write concern
// and a bounded acknowledgment timeout, and all reads go to the primary, so
// a write acknowledged here is visible to subsequent reads from any replica
// and a slow replication round surfaces as an error instead of a hang.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/tekmiz/tekmiz-backend/pkg/tekmiz"
)

// writeAckTimeout bounds how long a write waits for majority acknowledgment.
const writeAckTimeout = 5 * time.Second

// Connect opens a client with the durability options the repository relies on.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetReadPreference(readpref.Primary()).
		SetWriteConcern(&writeconcern.WriteConcern{W: "majority", WTimeout: writeAckTimeout}).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// Repository implements tekmiz.Repository using MongoDB
type Repository struct {
	playlists *mongo.Collection
	resources *mongo.Collection
}

// New creates a new MongoDB repository over the given database
func New(db *mongo.Database) *Repository {
	return &Repository{
		playlists: db.Collection("playlists"),
		resources: db.Collection("resources"),
	}
}

// EnsureIndexes creates the indexes the query paths depend on.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.playlists.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create playlist indexes: %w", err)
	}

	_, err = r.resources.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "playlistId", Value: 1}, {Key: "order", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create resource indexes: %w", err)
	}
	return nil
}

// playlistDoc is the persisted shape of a playlist
type playlistDoc struct {
	ID             string    `bson:"_id"`
	Title          string    `bson:"title"`
	Description    string    `bson:"description"`
	Thumbnail      string    `bson:"thumbnail"`
	ThumbnailKey   string    `bson:"thumbnailKey,omitempty"`
	Category       string    `bson:"category"`
	Author         string    `bson:"author"`
	AuthorID       string    `bson:"authorId"`
	Views          int64     `bson:"views"`
	Likes          int64     `bson:"likes"`
	ResourcesCount int64     `bson:"resourcesCount"`
	Trending       bool      `bson:"trending"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

// resourceDoc is the persisted shape of a resource
type resourceDoc struct {
	ID          string    `bson:"_id"`
	PlaylistID  string    `bson:"playlistId"`
	Type        string    `bson:"type"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	FileURL     string    `bson:"fileUrl"`
	FileKey     string    `bson:"fileKey,omitempty"`
	FileName    string    `bson:"fileName,omitempty"`
	FileSize    int64     `bson:"fileSize,omitempty"`
	Duration    string    `bson:"duration,omitempty"`
	Order       int       `bson:"order"`
	Views       int64     `bson:"views"`
	UploadedBy  string    `bson:"uploadedBy"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toPlaylistDoc(p *tekmiz.Playlist) playlistDoc {
	return playlistDoc{
		ID:             p.ID.String(),
		Title:          p.Title,
		Description:    p.Description,
		Thumbnail:      p.Thumbnail,
		ThumbnailKey:   p.ThumbnailKey,
		Category:       string(p.Category),
		Author:         p.Author,
		AuthorID:       p.AuthorID,
		Views:          p.Views,
		Likes:          p.Likes,
		ResourcesCount: p.ResourcesCount,
		Trending:       p.Trending,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d playlistDoc) toDomain() (*tekmiz.Playlist, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist id %q: %w", d.ID, err)
	}
	return &tekmiz.Playlist{
		ID:             id,
		Title:          d.Title,
		Description:    d.Description,
		Thumbnail:      d.Thumbnail,
		ThumbnailKey:   d.ThumbnailKey,
		Category:       tekmiz.Category(d.Category),
		Author:         d.Author,
		AuthorID:       d.AuthorID,
		Views:          d.Views,
		Likes:          d.Likes,
		ResourcesCount: d.ResourcesCount,
		Trending:       d.Trending,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func toResourceDoc(res *tekmiz.Resource) resourceDoc {
	return resourceDoc{
		ID:          res.ID.String(),
		PlaylistID:  res.PlaylistID.String(),
		Type:        string(res.Type),
		Title:       res.Title,
		Description: res.Description,
		FileURL:     res.FileURL,
		FileKey:     res.FileKey,
		FileName:    res.FileName,
		FileSize:    res.FileSize,
		Duration:    res.Duration,
		Order:       res.Order,
		Views:       res.Views,
		UploadedBy:  res.UploadedBy,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
}

func (d resourceDoc) toDomain() (*tekmiz.Resource, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid resource id %q: %w", d.ID, err)
	}
	playlistID, err := uuid.Parse(d.PlaylistID)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist id %q: %w", d.PlaylistID, err)
	}
	return &tekmiz.Resource{
		ID:          id,
		PlaylistID:  playlistID,
		Type:        tekmiz.ResourceType(d.Type),
		Title:       d.Title,
		Description: d.Description,
		FileURL:     d.FileURL,
		FileKey:     d.FileKey,
		FileName:    d.FileName,
		FileSize:    d.FileSize,
		Duration:    d.Duration,
		Order:       d.Order,
		Views:       d.Views,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// Playlist operations

func (r *Repository) CreatePlaylist(ctx context.Context, playlist *tekmiz.Playlist) error {
	if _, err := r.playlists.InsertOne(ctx, toPlaylistDoc(playlist)); err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

func (r *Repository) GetPlaylist(ctx context.Context, id uuid.UUID) (*tekmiz.Playlist, error) {
	var doc playlistDoc
	err := r.playlists.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, tekmiz.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find playlist: %w", err)
	}
	return doc.toDomain()
}

func (r *Repository) ListPlaylists(ctx context.Context, filter tekmiz.PlaylistFilter) ([]*tekmiz.Playlist, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.AuthorID != "" {
		query["authorId"] = filter.AuthorID
	}
	if filter.Search != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}

	cursor, err := r.playlists.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer cursor.Close(ctx)

	result := []*tekmiz.Playlist{}
	for cursor.Next(ctx) {
		var doc playlistDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode playlist: %w", err)
		}
		playlist, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, playlist)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("playlist cursor failed: %w", err)
	}
	return result, nil
}

func (r *Repository) UpdatePlaylist(ctx context.Context, playlist *tekmiz.Playlist) error {
	result, err := r.playlists.ReplaceOne(ctx, bson.M{"_id": playlist.ID.String()}, toPlaylistDoc(playlist))
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	if result.MatchedCount == 0 {
		return tekmiz.ErrPlaylistNotFound
	}
	return nil
}

func (r *Repository) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	result, err := r.playlists.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if result.DeletedCount == 0 {
		return tekmiz.ErrPlaylistNotFound
	}
	return nil
}

// IncrementPlaylistViews uses a store-side $inc so concurrent increments
// never lose updates.
func (r *Repository) IncrementPlaylistViews(ctx context.Context, id uuid.UUID) (int64, error) {
	var doc playlistDoc
	err := r.playlists.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{
			"$inc": bson.M{"views": 1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, tekmiz.ErrPlaylistNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment playlist views: %w", err)
	}
	return doc.Views, nil
}

func (r *Repository) SetResourcesCount(ctx context.Context, id uuid.UUID, count int64) error {
	result, err := r.playlists.UpdateByID(ctx, id.String(), bson.M{
		"$set": bson.M{"resourcesCount": count, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to set resources count: %w", err)
	}
	if result.MatchedCount == 0 {
		return tekmiz.ErrPlaylistNotFound
	}
	return nil
}

// Resource operations

func (r *Repository) CreateResource(ctx context.Context, resource *tekmiz.Resource) error {
	if _, err := r.resources.InsertOne(ctx, toResourceDoc(resource)); err != nil {
		return fmt.Errorf("failed to insert resource: %w", err)
	}
	return nil
}

func (r *Repository) GetResource(ctx context.Context, id uuid.UUID) (*tekmiz.Resource, error) {
	var doc resourceDoc
	err := r.resources.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, tekmiz.ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find resource: %w", err)
	}
	return doc.toDomain()
}

func (r *Repository) ListResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) ([]*tekmiz.Resource, error) {
	cursor, err := r.resources.Find(ctx,
		bson.M{"playlistId": playlistID.String()},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer cursor.Close(ctx)

	result := []*tekmiz.Resource{}
	for cursor.Next(ctx) {
		var doc resourceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode resource: %w", err)
		}
		resource, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, resource)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("resource cursor failed: %w", err)
	}
	return result, nil
}

func (r *Repository) CountResourcesByPlaylist(ctx context.Context, playlistID uuid.UUID) (int64, error) {
	count, err := r.resources.CountDocuments(ctx, bson.M{"playlistId": playlistID.String()})
	if err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource *tekmiz.Resource) error {
	result, err := r.resources.ReplaceOne(ctx, bson.M{"_id": resource.ID.String()}, toResourceDoc(resource))
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	if result.MatchedCount == 0 {
		return tekmiz.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) UpdateResourceOrder(ctx context.Context, id uuid.UUID, order int) error {
	result, err := r.resources.UpdateByID(ctx, id.String(), bson.M{
		"$set": bson.M{"order": order, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update resource order: %w", err)
	}
	if result.MatchedCount == 0 {
		return tekmiz.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	result, err := r.resources.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if result.DeletedCount == 0 {
		return tekmiz.ErrResourceNotFound
	}
	return nil
}
