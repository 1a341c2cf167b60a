package finder

import (
	"context"
	"discord-finder/internal/httpfetch"
	"discord-finder/internal/scrapers/discord"
	"discord-finder/internal/telemetry"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	pages map[int][]string
	errs  map[int]error
}

func (s fakeSearcher) Search(_ context.Context, page int) ([]string, error) {
	if err := s.errs[page]; err != nil {
		return nil, err
	}
	return s.pages[page], nil
}

type fakePages struct {
	invites map[string][]string
	errs    map[string]error
}

func (p fakePages) Resolve(_ context.Context, url string) ([]string, error) {
	if err := p.errs[url]; err != nil {
		return nil, err
	}
	return p.invites[url], nil
}

type fakeInvites struct {
	calls sync.Map
	count atomic.Int64
	fail  map[string]error
}

func (f *fakeInvites) FetchInvite(_ context.Context, url string) (discord.Invite, error) {
	f.count.Add(1)
	if _, loaded := f.calls.LoadOrStore(url, true); loaded {
		return discord.Invite{}, errors.New("fetched twice: " + url)
	}
	if err := f.fail[url]; err != nil {
		return discord.Invite{}, err
	}
	code, ok := discord.ExtractCode(url)
	if !ok {
		return discord.Invite{}, httpfetch.ErrInvalidResponse
	}
	return discord.Invite{Code: code}, nil
}

func collect(t testing.TB, f Finder) ([]string, error) {
	var urls []string
	err := f.Run(context.Background(), func(invite discord.Invite) {
		urls = append(urls, invite.URL())
	})
	sort.Strings(urls)
	return urls, err
}

func TestRun(t *testing.T) {
	search := fakeSearcher{pages: map[int][]string{
		0: {"https://a.example", "https://b.example"},
		1: {"https://c.example"},
		// not searched, Pages is 2
		2: {"https://d.example"},
	}}
	pages := fakePages{invites: map[string][]string{
		"https://a.example": {"https://discord.com/invite/aaaaaaa", "https://discord.com/invite/bbbbbbb"},
		"https://b.example": {"https://discord.com/invite/bbbbbbb"},
		"https://c.example": {"https://discord.com/invite/ccccccc", "https://discord.com/invite/aaaaaaa"},
		"https://d.example": {"https://discord.com/invite/ddddddd"},
	}}

	for _, concurrency := range []int{0, 1, 4} {
		invites := &fakeInvites{}
		tel := &telemetry.RecorderAPI{}
		f := New(search, pages, invites, tel, Options{Pages: 2, Concurrency: concurrency})

		urls, err := collect(t, f)
		require.NoError(t, err)
		require.Equal(t, []string{
			"https://discord.com/invite/aaaaaaa",
			"https://discord.com/invite/bbbbbbb",
			"https://discord.com/invite/ccccccc",
		}, urls)
		require.Equal(t, int64(3), invites.count.Load())

		counts := tel.Reports("count")
		require.Len(t, counts, 1)
		require.Equal(t, []any{int64(3)}, counts[0].Params)
	}
}

func TestRunSkipsFailures(t *testing.T) {
	search := fakeSearcher{
		pages: map[int][]string{
			1: {"https://a.example", "https://b.example"},
		},
		errs: map[int]error{0: httpfetch.ErrTimeout},
	}
	pages := fakePages{
		invites: map[string][]string{
			"https://a.example": {"https://discord.com/invite/aaaaaaa", "https://discord.com/invite/bbbbbbb"},
		},
		errs: map[string]error{"https://b.example": httpfetch.ErrInvalidResponse},
	}
	invites := &fakeInvites{fail: map[string]error{
		"https://discord.com/invite/bbbbbbb": httpfetch.ErrInvalidResponse,
	}}

	tel := &telemetry.RecorderAPI{}
	f := New(search, pages, invites, tel, Options{Pages: 2, Concurrency: 2})

	urls, err := collect(t, f)
	require.Equal(t, []string{"https://discord.com/invite/aaaaaaa"}, urls)
	require.ErrorIs(t, err, httpfetch.ErrTimeout)
	require.ErrorIs(t, err, httpfetch.ErrInvalidResponse)
	require.Len(t, tel.Reports("warning"), 3)
}

func TestRunCanceled(t *testing.T) {
	search := fakeSearcher{pages: map[int][]string{0: {"https://a.example"}}}
	pages := fakePages{invites: map[string][]string{
		"https://a.example": {"https://discord.com/invite/aaaaaaa"},
	}}
	invites := &fakeInvites{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(search, pages, invites, &telemetry.RecorderAPI{}, Options{Pages: 3})
	called := false
	err := f.Run(ctx, func(discord.Invite) { called = true })
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
	require.Equal(t, int64(0), invites.count.Load())
}

func TestRunCanceledBetweenPages(t *testing.T) {
	search := fakeSearcher{pages: map[int][]string{
		0: {"https://a.example"},
		1: {"https://b.example"},
	}}
	pages := fakePages{invites: map[string][]string{
		"https://a.example": {"https://discord.com/invite/aaaaaaa"},
		"https://b.example": {"https://discord.com/invite/bbbbbbb"},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := New(search, pages, &fakeInvites{}, &telemetry.RecorderAPI{}, Options{Pages: 2})
	var urls []string
	err := f.Run(ctx, func(invite discord.Invite) {
		urls = append(urls, invite.URL())
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"https://discord.com/invite/aaaaaaa"}, urls)
}

func TestRunCanceledOnLastPage(t *testing.T) {
	search := fakeSearcher{pages: map[int][]string{0: {"https://a.example"}}}
	pages := fakePages{invites: map[string][]string{
		"https://a.example": {"https://discord.com/invite/aaaaaaa"},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := New(search, pages, &fakeInvites{}, &telemetry.RecorderAPI{}, Options{Pages: 1})
	err := f.Run(ctx, func(discord.Invite) { cancel() })
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 1)
}

func TestRunRateLimited(t *testing.T) {
	search := fakeSearcher{pages: map[int][]string{0: {"https://a.example"}}}
	pages := fakePages{invites: map[string][]string{
		"https://a.example": {"https://discord.com/invite/aaaaaaa"},
	}}

	f := New(search, pages, &fakeInvites{}, &telemetry.RecorderAPI{}, Options{
		Pages:             1,
		RequestsPerSecond: 1000,
	})
	urls, err := collect(t, f)
	require.NoError(t, err)
	require.Equal(t, []string{"https://discord.com/invite/aaaaaaa"}, urls)
}
