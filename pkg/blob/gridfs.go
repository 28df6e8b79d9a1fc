package blob

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// gridfsStorage stores blobs in a MongoDB GridFS bucket. It keeps binaries in
// the same database as the rest of the system, which means a single backup
// covers both documents and attachments.
type gridfsStorage struct {
	bucket *mongo.GridFSBucket
}

// NewGridFS creates a GridFS-backed blob storage on the given database.
func NewGridFS(db *mongo.Database) (Storage, error) {
	bucket := db.GridFSBucket()
	if bucket == nil {
		return nil, ErrBucketUnavailable
	}
	return &gridfsStorage{bucket: bucket}, nil
}

func (g *gridfsStorage) Store(ctx context.Context, filename string, r io.Reader, meta map[string]string) (string, error) {
	doc := bson.M{}
	for k, v := range meta {
		doc[k] = v
	}

	id, err := g.bucket.UploadFromStream(ctx, filename, r, options.GridFSUpload().SetMetadata(doc))
	if err != nil {
		return "", errors.Join(ErrStoreFailed, err)
	}
	return id.Hex(), nil
}

func (g *gridfsStorage) Open(ctx context.Context, id string) (io.ReadCloser, Metadata, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, Metadata{}, ErrInvalidID
	}

	stream, err := g.bucket.OpenDownloadStream(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrFileNotFound) {
			return nil, Metadata{}, ErrNotFound
		}
		return nil, Metadata{}, errors.Join(ErrOpenFailed, err)
	}

	meta := Metadata{ContentType: "application/octet-stream"}
	if file := stream.GetFile(); file != nil {
		meta.Filename = file.Name
		if len(file.Metadata) > 0 {
			if v, lookupErr := file.Metadata.LookupErr("content_type"); lookupErr == nil {
				if ct, ok := v.StringValueOK(); ok {
					meta.ContentType = ct
				}
			}
		}
	}

	return stream, meta, nil
}

func (g *gridfsStorage) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := g.bucket.Delete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrFileNotFound) {
			return ErrNotFound
		}
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}
