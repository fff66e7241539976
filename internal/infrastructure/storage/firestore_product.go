package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreProductStore struct {
	client     *firestore.Client
	collection string
	timeout    time.Duration
}

// NewFirestoreProductStore Firestore "products" kolleksiyasi ustidagi store.
// credentialsFile bo'sh bo'lsa Application Default Credentials ishlatiladi.
func NewFirestoreProductStore(ctx context.Context, projectID, credentialsFile string) (repository.ProductStore, error) {
	if projectID == "" {
		return nil, errors.New("firestore project id bo'sh bo'lmasligi kerak")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &firestoreProductStore{
		client:     client,
		collection: repository.ProductsCollection,
		timeout:    15 * time.Second,
	}, nil
}

func (f *firestoreProductStore) col() *firestore.CollectionRef {
	return f.client.Collection(f.collection)
}

func firestoreErr(op string, err error) error {
	return fmt.Errorf("%w: firestore %s: %v", repository.ErrStore, op, err)
}

// Create hujjat qo'shish. createdAt server vaqti bilan yoziladi.
func (f *firestoreProductStore) Create(ctx context.Context, product entity.Product) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	product = product.Clone()
	product.ID = ""
	product.CreatedAt = time.Time{} // serverTimestamp teg ishlashi uchun

	ref, _, err := f.col().Add(ctx, product)
	if err != nil {
		return "", firestoreErr("add", err)
	}
	return ref.ID, nil
}

// List barcha hujjatlarni olish
func (f *firestoreProductStore) List(ctx context.Context) ([]entity.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	iter := f.col().Documents(ctx)
	defer iter.Stop()

	products := []entity.Product{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, firestoreErr("list", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, firestoreErr("decode "+doc.Ref.ID, err)
		}
		product.ID = doc.Ref.ID
		products = append(products, product)
	}
	return products, nil
}

// Delete hujjatni o'chirish
func (f *firestoreProductStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if _, err := f.col().Doc(id).Delete(ctx); err != nil {
		return firestoreErr("delete", err)
	}
	return nil
}

// Replace hujjatni to'liq almashtirish (merge emas)
func (f *firestoreProductStore) Replace(ctx context.Context, product entity.Product) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	ref := f.col().Doc(product.ID)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: %w: %s", repository.ErrStore, repository.ErrProductNotFound, product.ID)
		}
		return firestoreErr("get", err)
	}

	doc := product.Clone()
	doc.ID = ""
	if _, err := ref.Set(ctx, doc); err != nil {
		return firestoreErr("set", err)
	}
	return nil
}

// Close client ni yopish
func (f *firestoreProductStore) Close() error {
	return f.client.Close()
}
