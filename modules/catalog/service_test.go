package catalog

import (
	"context"
	"testing"

	"ai-studio-server/modules/common/apperr"
	"ai-studio-server/modules/common/model"
)

type fakeStore struct {
	entities map[string]*model.CatalogEntity // key: table/id
	deleted  []string
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entities: map[string]*model.CatalogEntity{}}
}

func (f *fakeStore) FindCatalogEntity(ctx context.Context, coll model.Collection, id string) (*model.CatalogEntity, error) {
	return f.entities[coll.Table+"/"+id], nil
}

func (f *fakeStore) ListCatalogEntities(ctx context.Context, coll model.Collection) ([]model.CatalogEntity, error) {
	var out []model.CatalogEntity
	for _, e := range f.entities {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) InsertCatalogEntity(ctx context.Context, coll model.Collection, fields map[string]interface{}) (*model.CatalogEntity, error) {
	f.nextID++
	entity := &model.CatalogEntity{
		ID:   coll.Slug + "-new",
		Name: fields["name"].(string),
	}
	f.entities[coll.Table+"/"+entity.ID] = entity
	return entity, nil
}

func (f *fakeStore) UpdateCatalogEntity(ctx context.Context, coll model.Collection, id string, fields map[string]interface{}) (*model.CatalogEntity, error) {
	entity := f.entities[coll.Table+"/"+id]
	if entity == nil {
		return nil, nil
	}
	if name, ok := fields["name"].(string); ok {
		entity.Name = name
	}
	if url, ok := fields["image_url"].(string); ok {
		entity.ImageURL = &url
	}
	if path, ok := fields["image_path"].(string); ok {
		entity.ImagePath = &path
	}
	return entity, nil
}

func (f *fakeStore) SoftDeleteCatalogEntity(ctx context.Context, coll model.Collection, id string) error {
	f.deleted = append(f.deleted, coll.Table+"/"+id)
	delete(f.entities, coll.Table+"/"+id)
	return nil
}

type fakeBlobs struct {
	uploads map[string][]byte
}

func (f *fakeBlobs) Upload(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[path] = data
	return "https://cdn.example.com/" + path, nil
}

func TestCreateAndGet(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeBlobs{})
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CollectionIndustries, &UpsertEntityRequest{Name: "Apparel"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Get(ctx, model.CollectionIndustries, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Apparel" {
		t.Errorf("name = %s", got.Name)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeBlobs{})
	_, err := svc.Create(context.Background(), model.CollectionIndustries, &UpsertEntityRequest{})
	if !apperr.IsBadRequest(err) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestGetUnknownEntity(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeBlobs{})
	_, err := svc.Get(context.Background(), model.CollectionAiFaces, "missing")
	if !apperr.IsNotFound(err) || err.Error() != "AI face not found" {
		t.Fatalf("expected labeled NotFound, got %v", err)
	}
}

func TestSoftDelete(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeBlobs{})
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CollectionCategories, &UpsertEntityRequest{Name: "Tops"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.SoftDelete(ctx, model.CollectionCategories, created.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if len(store.deleted) != 1 {
		t.Errorf("deleted = %v", store.deleted)
	}

	// deleting twice reports not found
	if err := svc.SoftDelete(ctx, model.CollectionCategories, created.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound on second delete, got %v", err)
	}
}

func TestUploadImageRejectsGarbage(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeBlobs{})
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CollectionProductPoses, &UpsertEntityRequest{Name: "Standing"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.UploadImage(ctx, model.CollectionProductPoses, created.ID, &UploadImageRequest{
		Image: "definitely-not-an-image",
	})
	if !apperr.IsBadRequest(err) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestUploadImageUnknownEntity(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeBlobs{})
	_, err := svc.UploadImage(context.Background(), model.CollectionProductPoses, "missing", &UploadImageRequest{Image: "x"})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
