package httpfetch

import (
	"context"
	"discord-finder/internal/telemetry"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetSendsProfileHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	client := NewClient(&telemetry.RecorderAPI{}, ClientOptions{})
	res, err := client.Get(context.Background(), srv.URL, PageProfile)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, res.Status)
	require.Equal(t, "hello", res.Body)
	require.Equal(t, "text/plain", got.Get("Accept"))
	require.Equal(t, firefox71, got.Get("User-Agent"))
}

func TestGetCloudflareBypassKeepsProfile(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("discord.gg/abcdefg"))
	}))
	defer srv.Close()

	client := NewClient(&telemetry.RecorderAPI{}, ClientOptions{CloudflareBypass: true})
	res, err := client.Get(context.Background(), srv.URL, PageProfile)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Status)
	require.Equal(t, "discord.gg/abcdefg", res.Body)
	require.Equal(t, "text/plain", got.Get("Accept"))
	require.Equal(t, firefox71, got.Get("User-Agent"))
}

func TestGetUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tel := &telemetry.RecorderAPI{}
	client := NewClient(tel, ClientOptions{})
	_, err := client.Get(context.Background(), url, PageProfile)
	require.ErrorIs(t, err, ErrTimeout)
	require.True(t, tel.Broken("resty.response"))
}

func TestGetTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(&telemetry.RecorderAPI{}, ClientOptions{Timeout: 50 * time.Millisecond})
	_, err := client.Get(context.Background(), srv.URL, PageProfile)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestGetBinaryBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xff, 0xfe, 0xfd})
	}))
	defer srv.Close()

	client := NewClient(&telemetry.RecorderAPI{}, ClientOptions{})
	_, err := client.Get(context.Background(), srv.URL, PageProfile)
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, ErrTimeout, KindOf(ErrTimeout))
	require.Equal(t, ErrInvalidResponse, KindOf(ErrInvalidResponse))
	require.Equal(t, Error(0), KindOf(errors.New("other")))
	require.Equal(t, Error(0), KindOf(nil))
}

func TestProfileWithUserAgent(t *testing.T) {
	custom := DiscordProfile.WithUserAgent("agent/1.0")
	require.Equal(t, "agent/1.0", custom.Headers["User-Agent"])
	require.Equal(t, firefox72, DiscordProfile.Headers["User-Agent"])
	require.Equal(t, "Trailers", custom.Headers["TE"])

	unchanged := DiscordProfile.WithUserAgent("")
	require.Equal(t, DiscordProfile.Headers, unchanged.Headers)
}

func TestGetDumpsExchanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Page", "results")
		w.Write([]byte("discord.gg/abcdefg"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "exchanges")
	client := NewClient(&telemetry.RecorderAPI{}, ClientOptions{DumpDir: dir})
	_, err := client.Get(context.Background(), srv.URL+"/a", PageProfile)
	require.NoError(t, err)
	_, err = client.Get(context.Background(), srv.URL+"/b", PageProfile)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	dump := string(contents)
	require.True(t, strings.HasPrefix(dump, "---- REQUEST ----\n\nGET "+srv.URL+"/a"), dump)
	require.Contains(t, dump, "Accept: text/plain")
	require.Contains(t, dump, "X-Page: results")
	require.True(t, strings.HasSuffix(dump, "discord.gg/abcdefg"), dump)
}
