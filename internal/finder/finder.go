package finder

import (
	"context"
	"discord-finder/internal/scrapers/discord"
	"discord-finder/internal/telemetry"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	report_finder_search  = "finder.search"
	report_finder_page    = "finder.page"
	report_finder_invite  = "finder.invite"
	report_finder_invites = "finder.invites"
)

type Searcher interface {
	Search(ctx context.Context, page int) ([]string, error)
}

type PageResolver interface {
	Resolve(ctx context.Context, url string) ([]string, error)
}

type InviteFetcher interface {
	FetchInvite(ctx context.Context, url string) (discord.Invite, error)
}

type Options struct {
	// Pages is the number of result pages searched, starting at page 0.
	Pages int
	// Concurrency bounds the candidate pages and invites being fetched at once, defaults to 1.
	Concurrency int
	// RequestsPerSecond limits the rate at which candidate pages and invites are fetched,
	// zero means no limit.
	RequestsPerSecond float64
}

// Finder drives the whole pipeline: result pages, then the candidate pages they list, then
// the invites mentioned by those pages.
type Finder struct {
	search  Searcher
	pages   PageResolver
	invites InviteFetcher
	tel     telemetry.API
	opts    Options
}

func New(search Searcher, pages PageResolver, invites InviteFetcher, tel telemetry.API, opts Options) Finder {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return Finder{
		search:  search,
		pages:   pages,
		invites: invites,
		tel:     tel,
		opts:    opts,
	}
}

// Run searches every page and calls onInvite once for each distinct invite that resolved.
// onInvite is never called concurrently.
//
// A failing call only skips what depends on it, the failures are returned joined together
// once everything else has run. Run only stops early when ctx is done, the returned error
// then includes ctx.Err().
func (f Finder) Run(ctx context.Context, onInvite func(discord.Invite)) error {
	limit := rate.Inf
	if f.opts.RequestsPerSecond > 0 {
		limit = rate.Limit(f.opts.RequestsPerSecond)
	}
	r := &run{
		finder:   f,
		limiter:  rate.NewLimiter(limit, 1),
		seen:     map[string]struct{}{},
		onInvite: onInvite,
	}

	for page := 0; page < f.opts.Pages; page++ {
		if ctx.Err() != nil {
			break
		}
		links, err := f.search.Search(ctx, page)
		if err != nil {
			f.tel.ReportWarning(report_finder_search, page, err)
			r.fail(fmt.Errorf("search page %d: %w", page, err))
			continue
		}
		err = r.visit(ctx, links)
		if err != nil {
			if ctx.Err() == nil {
				r.fail(err)
			}
			break
		}
	}
	if ctx.Err() != nil {
		r.fail(ctx.Err())
	}

	f.tel.ReportCount(report_finder_invites, r.resolved)
	return errors.Join(r.errs...)
}

// run is the state of a single call to Run.
type run struct {
	finder   Finder
	limiter  *rate.Limiter
	onInvite func(discord.Invite)

	mutex    sync.Mutex
	seen     map[string]struct{}
	resolved int64
	errs     []error
}

func (r *run) fail(err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.errs = append(r.errs, err)
}

// claim reports whether url was not seen before in this run and marks it as seen.
func (r *run) claim(url string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.seen[url]; ok {
		return false
	}
	r.seen[url] = struct{}{}
	return true
}

func (r *run) emit(invite discord.Invite) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.resolved++
	r.onInvite(invite)
}

// visit resolves every candidate page and the invites on it, it only returns an error
// when ctx is done.
func (r *run) visit(ctx context.Context, links []string) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.finder.opts.Concurrency)

	for _, link := range links {
		group.Go(func() error {
			err := r.limiter.Wait(ctx)
			if err != nil {
				return err
			}
			invites, err := r.finder.pages.Resolve(ctx, link)
			if err != nil {
				r.finder.tel.ReportWarning(report_finder_page, link, err)
				r.fail(fmt.Errorf("resolve %s: %w", link, err))
				return nil
			}

			for _, invite := range invites {
				if !r.claim(invite) {
					continue
				}
				err := r.limiter.Wait(ctx)
				if err != nil {
					return err
				}
				resolved, err := r.finder.invites.FetchInvite(ctx, invite)
				if err != nil {
					r.finder.tel.ReportWarning(report_finder_invite, invite, err)
					r.fail(fmt.Errorf("fetch invite %s: %w", invite, err))
					continue
				}
				r.emit(resolved)
			}
			return nil
		})
	}

	return group.Wait()
}
