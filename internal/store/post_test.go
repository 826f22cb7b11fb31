package store

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"pressgate/internal/errs"
	"pressgate/internal/models"
	"pressgate/internal/pagination"
)

func testPost(author *models.User, category *models.Category, status models.PostStatus) *models.Post {
	slug := "test-post-" + uuid.NewString()[:8]
	return &models.Post{
		Slug:             slug,
		Title:            "Test Post " + slug,
		Description:      "A short description",
		Content:          "Some content for the post body.",
		Excerpt:          "A short description",
		Status:           status,
		AuthorID:         author.ID,
		CategoryID:       category.ID,
		ModerationStatus: models.ModerationApproved,
	}
}

func TestPostStoreCreateMaintainsCounters(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	users := NewUserStore(db)
	categories := NewCategoryStore(db)

	author := testUser(t, db, models.RoleAuthor)
	category := testCategory(t, db)

	p := testPost(author, category, models.PostStatusDraft)
	t.Cleanup(func() { cleanPosts(t, db, p.Slug) })

	created, err := posts.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Views != 0 {
		t.Errorf("views: got %d, want 0", created.Views)
	}

	u, _ := users.FindByID(author.ID)
	if u.PostCount != 1 || u.DraftCount != 1 {
		t.Errorf("author counters: got %d/%d, want 1/1", u.PostCount, u.DraftCount)
	}

	c, _ := categories.FindByID(category.ID)
	if c.PostCount != 1 {
		t.Errorf("category count: got %d, want 1", c.PostCount)
	}
}

func TestPostStoreCreatePublishedSkipsDraftCount(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	users := NewUserStore(db)

	author := testUser(t, db, models.RoleAuthor)
	category := testCategory(t, db)

	p := testPost(author, category, models.PostStatusPublished)
	t.Cleanup(func() { cleanPosts(t, db, p.Slug) })

	if _, err := posts.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	u, _ := users.FindByID(author.ID)
	if u.PostCount != 1 || u.DraftCount != 0 {
		t.Errorf("author counters: got %d/%d, want 1/0", u.PostCount, u.DraftCount)
	}
}

func TestPostStoreCreateSlugConflict(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	author := testUser(t, db, models.RoleAuthor)
	category := testCategory(t, db)

	p := testPost(author, category, models.PostStatusDraft)
	t.Cleanup(func() { cleanPosts(t, db, p.Slug) })

	if _, err := posts.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := testPost(author, category, models.PostStatusDraft)
	dup.Slug = p.Slug

	_, err := posts.Create(dup)
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected API error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", apiErr.Status, http.StatusBadRequest)
	}

	// The failed insert must not have touched the counters.
	u, _ := NewUserStore(db).FindByID(author.ID)
	if u.PostCount != 1 {
		t.Errorf("author post count after conflict: got %d, want 1", u.PostCount)
	}
}

func TestPostStoreCreateUnknownCategory(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	author := testUser(t, db, models.RoleAuthor)
	category := testCategory(t, db)

	p := testPost(author, category, models.PostStatusDraft)
	p.CategoryID = uuid.New()

	_, err := posts.Create(p)
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected API error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", apiErr.Status, http.StatusBadRequest)
	}
}

func TestPostStoreListFilters(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	author := testUser(t, db, models.RoleAuthor)
	other := testUser(t, db, models.RoleAuthor)
	category := testCategory(t, db)

	draft := testPost(author, category, models.PostStatusDraft)
	published := testPost(other, category, models.PostStatusPublished)
	published.Title = "Needle In A Haystack"
	t.Cleanup(func() { cleanPosts(t, db, draft.Slug, published.Slug) })

	if _, err := posts.Create(draft); err != nil {
		t.Fatalf("Create draft: %v", err)
	}
	if _, err := posts.Create(published); err != nil {
		t.Fatalf("Create published: %v", err)
	}

	page := pagination.Params{Page: 1, Limit: 50}

	// Author filter.
	items, total, err := posts.List(PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		t.Fatalf("List by author: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("author filter: got %d items, total %d, want 1/1", len(items), total)
	}
	if items[0].Slug != draft.Slug {
		t.Errorf("author filter slug: got %q, want %q", items[0].Slug, draft.Slug)
	}

	// Status + category combined.
	items, total, err = posts.List(PostFilter{Status: models.PostStatusPublished, CategoryID: &category.ID}, page)
	if err != nil {
		t.Fatalf("List by status+category: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("status filter: got %d items, total %d, want 1/1", len(items), total)
	}

	// Search hits the title and the total matches the page contents.
	items, total, err = posts.List(PostFilter{Search: "needle in a hay"}, page)
	if err != nil {
		t.Fatalf("List by search: %v", err)
	}
	if total != len(items) {
		t.Errorf("search total %d != items %d", total, len(items))
	}
	if total != 1 {
		t.Errorf("search total: got %d, want 1", total)
	}
}

func TestPostStoreUpdateMovesCategoryCounts(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	categories := NewCategoryStore(db)

	author := testUser(t, db, models.RoleAuthor)
	from := testCategory(t, db)
	to := testCategory(t, db)

	p := testPost(author, from, models.PostStatusDraft)
	t.Cleanup(func() { cleanPosts(t, db, p.Slug) })

	created, err := posts.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	prev := *created
	created.CategoryID = to.ID
	created.Status = models.PostStatusPublished

	if err := posts.Update(created, &prev); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fromCat, _ := categories.FindByID(from.ID)
	toCat, _ := categories.FindByID(to.ID)
	if fromCat.PostCount != 0 {
		t.Errorf("old category count: got %d, want 0", fromCat.PostCount)
	}
	if toCat.PostCount != 1 {
		t.Errorf("new category count: got %d, want 1", toCat.PostCount)
	}

	// Leaving draft status releases the author's draft count.
	u, _ := NewUserStore(db).FindByID(author.ID)
	if u.DraftCount != 0 {
		t.Errorf("draft count: got %d, want 0", u.DraftCount)
	}
	if u.PostCount != 1 {
		t.Errorf("post count: got %d, want 1", u.PostCount)
	}
}

func TestPostStoreDeleteReleasesCounters(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	author := testUser(t, db, models.RoleAuthor)
	category := testCategory(t, db)

	p := testPost(author, category, models.PostStatusDraft)
	created, err := posts.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := posts.Delete(created); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	found, _ := posts.FindByID(created.ID)
	if found != nil {
		t.Error("expected nil after delete")
	}

	u, _ := NewUserStore(db).FindByID(author.ID)
	if u.PostCount != 0 || u.DraftCount != 0 {
		t.Errorf("author counters: got %d/%d, want 0/0", u.PostCount, u.DraftCount)
	}
	c, _ := NewCategoryStore(db).FindByID(category.ID)
	if c.PostCount != 0 {
		t.Errorf("category count: got %d, want 0", c.PostCount)
	}
}

func TestPostStoreIncrementViews(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	author := testUser(t, db, models.RoleAuthor)
	category := testCategory(t, db)

	p := testPost(author, category, models.PostStatusPublished)
	t.Cleanup(func() { cleanPosts(t, db, p.Slug) })

	created, err := posts.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := posts.IncrementViews(created.ID); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	if err := posts.IncrementViews(created.ID); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}

	found, _ := posts.FindByID(created.ID)
	if found.Views != 2 {
		t.Errorf("views: got %d, want 2", found.Views)
	}
}
