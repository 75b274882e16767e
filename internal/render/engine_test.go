package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/handiism/static-gallery/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCodec writes a marker file for every call and fails for chosen sources.
type fakeCodec struct {
	resizes atomic.Int32
	recodes atomic.Int32
	fail    map[string]bool

	mu      sync.Mutex
	targets []string
}

func (c *fakeCodec) Resize(ctx context.Context, src, dst string, res model.Resolution, quality int, method string) error {
	c.resizes.Add(1)
	return c.write(src, dst)
}

func (c *fakeCodec) Recode(ctx context.Context, src, dst string, quality int) error {
	c.recodes.Add(1)
	return c.write(src, dst)
}

func (c *fakeCodec) write(src, dst string) error {
	if c.fail[src] {
		return errors.New("corrupt image")
	}
	c.mu.Lock()
	c.targets = append(c.targets, dst)
	c.mu.Unlock()
	return os.WriteFile(dst, []byte(src), 0644)
}

func (c *fakeCodec) calls() int {
	return int(c.resizes.Load() + c.recodes.Load())
}

var testResolutions = Resolutions{
	Thumb:      model.Resolution{Width: 960, Height: 540},
	Display:    model.Resolution{Width: 2560, Height: 1440},
	Background: model.Resolution{Width: 1920, Height: 1080},
}

func testCollection() *model.Collection {
	return model.NewCollection("Trip",
		[]model.Picture{
			model.NewPicture(1, "/in/a.jpg", false),
			model.NewPicture(2, "/in/b.jpg", false),
		},
		[]model.Image{model.NewImage(3, "/in/bg.jpg")},
	)
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindThumbnail, "42.thumb.jpg"},
		{KindDisplay, "42.disp.jpg"},
		{KindFull, "42.jpg"},
		{KindBackground, "42.bg.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, filepath.Join("out", "p", tt.want), ArtifactPath(filepath.Join("out", "p"), 42, tt.kind))
		})
	}
}

func TestPlan(t *testing.T) {
	dir := t.TempDir()
	jobs := Plan([]*model.Collection{testCollection()}, dir, testResolutions)

	require.Len(t, jobs, 7)
	assert.Equal(t, KindBackground, jobs[0].Kind)
	assert.Equal(t, testResolutions.Background, jobs[0].Resolution)
	assert.Equal(t, "trip", jobs[0].Collection)

	kinds := map[Kind]int{}
	for _, j := range jobs {
		kinds[j.Kind]++
	}
	assert.Equal(t, map[Kind]int{KindThumbnail: 2, KindDisplay: 2, KindFull: 2, KindBackground: 1}, kinds)
}

func TestPlan_SkipsExistingAndRendered(t *testing.T) {
	dir := t.TempDir()
	col := testCollection()
	col.Pictures[1].NeedsRender = false
	require.NoError(t, os.WriteFile(ArtifactPath(dir, 1, KindThumbnail), nil, 0644))

	jobs := Plan([]*model.Collection{col}, dir, testResolutions)

	require.Len(t, jobs, 3)
	for _, j := range jobs {
		assert.NotEqual(t, uint64(2), j.Identity)
		assert.False(t, j.Identity == 1 && j.Kind == KindThumbnail)
	}
}

func TestPlan_SameIdentityPlannedOnce(t *testing.T) {
	a := model.NewCollection("A", []model.Picture{model.NewPicture(7, "/in/x.jpg", false)}, nil)
	b := model.NewCollection("B", []model.Picture{model.NewPicture(7, "/other/x.jpg", false)}, nil)

	jobs := Plan([]*model.Collection{a, b}, t.TempDir(), testResolutions)
	assert.Len(t, jobs, 3)
}

func TestEngine_Run(t *testing.T) {
	dir := t.TempDir()
	codec := &fakeCodec{}
	jobs := Plan([]*model.Collection{testCollection()}, dir, testResolutions)

	var events atomic.Int32
	engine := NewEngine(codec, Options{
		Concurrency: 3,
		Quality:     75,
		Method:      "lanczos3",
		Observer:    func(Event) { events.Add(1) },
	})
	report := engine.Run(context.Background(), jobs)

	assert.Equal(t, 7, report.Planned)
	assert.Equal(t, 7, report.Completed)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 0, report.Skipped())
	assert.Equal(t, int32(5), codec.resizes.Load())
	assert.Equal(t, int32(2), codec.recodes.Load())
	assert.Equal(t, int32(7), events.Load())

	p := engine.Progress()
	assert.Equal(t, Progress{Pending: 0, Active: 0, Done: 7, Total: 7}, p)
	assert.Equal(t, 100.0, p.Percent())
}

func TestEngine_RerunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	collections := []*model.Collection{testCollection()}

	first := &fakeCodec{}
	NewEngine(first, Options{Concurrency: 2}).Run(context.Background(), Plan(collections, dir, testResolutions))
	require.Equal(t, 7, first.calls())

	second := &fakeCodec{}
	report := NewEngine(second, Options{Concurrency: 2}).Run(context.Background(), Plan(collections, dir, testResolutions))

	assert.Equal(t, 0, second.calls())
	assert.Equal(t, 0, report.Planned)
}

func TestEngine_FailureIsolation(t *testing.T) {
	dir := t.TempDir()
	codec := &fakeCodec{fail: map[string]bool{"/in/b.jpg": true}}
	jobs := Plan([]*model.Collection{testCollection()}, dir, testResolutions)

	report := NewEngine(codec, Options{Concurrency: 4}).Run(context.Background(), jobs)

	assert.Equal(t, 4, report.Completed)
	require.Len(t, report.Failures, 3)
	assert.Equal(t, []uint64{2}, report.FailedIdentities())
	for _, f := range report.Failures {
		assert.Equal(t, "/in/b.jpg", f.Job.Source)
		assert.Contains(t, f.Error(), "corrupt image")
	}

	for _, path := range []string{
		ArtifactPath(dir, 1, KindThumbnail),
		ArtifactPath(dir, 1, KindDisplay),
		ArtifactPath(dir, 1, KindFull),
		ArtifactPath(dir, 3, KindBackground),
	} {
		assert.FileExists(t, path)
	}
	assert.NoFileExists(t, ArtifactPath(dir, 2, KindThumbnail))
}

func TestEngine_EveryJobRunsOnce(t *testing.T) {
	dir := t.TempDir()
	var pictures []model.Picture
	for i := range 50 {
		pictures = append(pictures, model.NewPicture(uint64(i+1), filepath.Join("/in", string(rune('a'+i%26))+".jpg"), false))
	}
	jobs := Plan([]*model.Collection{model.NewCollection("Many", pictures, nil)}, dir, testResolutions)

	codec := &fakeCodec{}
	report := NewEngine(codec, Options{Concurrency: 8}).Run(context.Background(), jobs)

	assert.Equal(t, 150, report.Completed)
	assert.Len(t, codec.targets, 150)

	unique := map[string]bool{}
	for _, target := range codec.targets {
		unique[target] = true
	}
	assert.Len(t, unique, 150)
}

func TestEngine_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	codec := &fakeCodec{}
	jobs := Plan([]*model.Collection{testCollection()}, t.TempDir(), testResolutions)
	report := NewEngine(codec, Options{Concurrency: 2}).Run(ctx, jobs)

	assert.Equal(t, 0, report.Completed)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 7, report.Skipped())
	assert.Equal(t, 0, codec.calls())
}

func TestProgress_Percent(t *testing.T) {
	assert.Equal(t, 100.0, Progress{}.Percent())
	assert.Equal(t, 25.0, Progress{Done: 1, Total: 4}.Percent())
}
