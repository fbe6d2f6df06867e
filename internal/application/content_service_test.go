package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
	repo "github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/pkg/mailer"
	"github.com/oksasatya/go-content-storefront/pkg/mailer/templates"
)

func readAll(t *testing.T, d *Delivery) string {
	t.Helper()
	defer d.Body.Close()
	b, err := io.ReadAll(d.Body)
	require.NoError(t, err)
	return string(b)
}

func TestCreate_FreeContentIsDeliveredToAnyone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, testAdmin, validInput("My Book", "0"))
	require.NoError(t, err)
	assert.Equal(t, "my-book", entry.ID)
	assert.False(t, entry.Paywalled)
	assert.Equal(t, "t0k3n-valid.pdf", entry.Filename)
	assert.Equal(t, "t0k3n-cover.png", entry.Image)
	assert.Equal(t, entry.Image, entry.PreviewImage)
	assert.Equal(t, testAdmin, entry.CreatedBy)

	stored, err := f.content.Get(ctx, "my-book")
	require.NoError(t, err)
	assert.Equal(t, entry, stored)

	d, err := f.svc.Deliver(ctx, "anyone", "my-book")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, "%PDF-1.4 body", readAll(t, d))

	_, err = os.Stat(filepath.Join(f.dirs[1], "t0k3n-cover.png"))
	assert.NoError(t, err)
}

func TestCreate_DuplicateNameLeavesCatalogUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, testAdmin, validInput("My Book", "0"))
	require.NoError(t, err)

	f.svc.NewToken = func() string { return "second" }
	_, err = f.svc.Create(ctx, testAdmin, validInput("my book", "5"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"name": MsgNameTaken}, verr.Fields)

	list, err := f.content.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0.0, list[0].Price)

	entries, err := os.ReadDir(f.dirs[0])
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// staleExists reports every id as free, as a concurrent creator would see it
// before the winner's insert lands.
type staleExists struct {
	repo.ContentRepository
}

func (staleExists) Exists(context.Context, string) (bool, error) { return false, nil }

func dirLen(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestCreate_LostInsertRaceRemovesBothFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Content = staleExists{f.content}

	first, err := f.svc.Create(ctx, testAdmin, validInput("My Book", "0"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, testAdmin, validInput("My Book", "5"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"name": MsgNameTaken}, verr.Fields)

	assert.Equal(t, 1, dirLen(t, f.dirs[0]))
	assert.Equal(t, 1, dirLen(t, f.dirs[1]))
	stored, err := f.content.Get(ctx, "my-book")
	require.NoError(t, err)
	assert.Equal(t, first, stored)
	assert.Len(t, f.pub.jobs, 1)
}

func TestCreate_ConcurrentSameNameHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var seq atomic.Int64
	f.svc.NewToken = func() string { return fmt.Sprintf("t%07d", seq.Add(1)) }

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(ctx, testAdmin, validInput("My Book", "0"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MsgNameTaken, verr.Fields["name"])
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, dirLen(t, f.dirs[0]))
	assert.Equal(t, 1, dirLen(t, f.dirs[1]))
	all, err := f.content.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreate_PaywalledNeedsGrant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, testAdmin, validInput("Paid Guide", "9.99"))
	require.NoError(t, err)
	assert.Equal(t, "paid-guide", entry.ID)
	assert.True(t, entry.Paywalled)
	assert.Equal(t, 9.99, entry.Price)

	_, err = f.svc.Deliver(ctx, "reader", "paid-guide")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.grant.Grant(ctx, "reader", "paid-guide")
	require.NoError(t, err)

	d, err := f.svc.Deliver(ctx, "reader", "paid-guide")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", readAll(t, d))
}

func TestCreate_ValidationAggregatesFieldErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := CreateContentInput{
		Name:  "ab",
		Price: "-1",
		File:  upload("notes.txt", "x"),
		Image: upload("cover.gif", "x"),
	}
	_, err := f.svc.Create(ctx, testAdmin, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"name":        "must be at least 3 characters long",
		"description": "is required",
		"file":        "must be a .pdf file",
		"image":       "must be one of: jpg, jpeg, png, svg",
		"price":       "must be greater than or equal to 0",
	}, verr.Fields)

	list, err := f.content.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_MissingFilesAndBadPrice(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), testAdmin, CreateContentInput{
		Name:        "Good name",
		Description: "d",
		Price:       "free",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["file"])
	assert.Equal(t, "is required", verr.Fields["image"])
	assert.Equal(t, "must be a valid number", verr.Fields["price"])
	assert.NotContains(t, verr.Fields, "name")
}

func TestCreate_ExtensionCheckIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	in := validInput("Shouting", "1")
	in.File = upload("BOOK.PDF", "x")
	in.Image = upload("Cover Art.JPEG", "x")

	entry, err := f.svc.Create(context.Background(), testAdmin, in)
	require.NoError(t, err)
	assert.Equal(t, "t0k3n-BOOK.pdf", entry.Filename)
	assert.Equal(t, "t0k3n-Cover_Art.jpeg", entry.Image)
}

func TestCreate_ImageFailureRemovesStoredFile(t *testing.T) {
	f := newFixture(t)
	f.svc.Files = &failingFiles{FileStorage: f.files, save: map[repo.FileKind]bool{repo.KindStatic: true}}

	_, err := f.svc.Create(context.Background(), testAdmin, validInput("My Book", "0"))
	require.ErrorIs(t, err, errDisk)

	entries, err := os.ReadDir(f.dirs[0])
	require.NoError(t, err)
	assert.Empty(t, entries)
	exists, err := f.content.Exists(context.Background(), "my-book")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreate_PublishesNotification(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), testAdmin, validInput("Paid Guide", "9.99"))
	require.NoError(t, err)

	require.Len(t, f.pub.jobs, 1)
	job, ok := f.pub.jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "ops@example.com", job.To)
	assert.Equal(t, templates.ContentCreated, job.Template)

	data, err := templates.FromMap(job.Data)
	require.NoError(t, err)
	assert.Equal(t, "paid-guide", data.ContentID)
	assert.Equal(t, testAdmin, data.Actor)
	assert.True(t, data.Paywalled)
}

func TestCreate_PublishFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	_, err := f.svc.Create(context.Background(), testAdmin, validInput("My Book", "0"))
	assert.NoError(t, err)
}

func TestDeliver_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Deliver(ctx, "reader", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.content.Create(ctx, &entity.Content{ID: "ghost", Name: "Ghost", Filename: "gone.pdf"})
	require.NoError(t, err)
	_, err = f.svc.Deliver(ctx, "reader", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.content.Create(ctx, &entity.Content{ID: "evil", Name: "Evil", Filename: "../../etc/passwd"})
	require.NoError(t, err)
	_, err = f.svc.Deliver(ctx, "reader", "evil")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenPreview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry, err := f.svc.Create(ctx, testAdmin, validInput("My Book", "3"))
	require.NoError(t, err)

	d, err := f.svc.OpenPreview(ctx, entry.PreviewImage)
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.ContentType)
	assert.Equal(t, "png bytes", readAll(t, d))

	_, err = f.svc.OpenPreview(ctx, "../content/"+entry.Filename)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_FallsBackToSubstringMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, testAdmin, validInput("My Book", "0"))
	require.NoError(t, err)
	in := validInput("Paid Guide", "2")
	in.Description = "Everything about gardening"
	_, err = f.svc.Create(ctx, testAdmin, in)
	require.NoError(t, err)

	got, err := f.svc.Search(ctx, "GARDEN", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "paid-guide", got[0].ID)

	got, err = f.svc.Search(ctx, "  ", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.svc.Search(ctx, "nothing like this", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_FallbackHonoursSize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Book One", "Book Two", "Book Three"} {
		_, err := f.svc.Create(ctx, testAdmin, validInput(name, "0"))
		require.NoError(t, err)
	}

	got, err := f.svc.Search(ctx, "book", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.svc.Search(ctx, "book", 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestStoredFilename(t *testing.T) {
	cases := map[string]string{
		"valid.pdf":          "tok-valid.pdf",
		"../../etc/cover.png": "tok-cover.png",
		`C:\docs\My File.PDF`: "tok-My_File.pdf",
		"résumé.pdf":          "tok-resume.pdf",
		"файл.pdf":            "tok-file.pdf",
		".pdf":                "tok-file.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, storedFilename("tok", in), in)
	}
}
