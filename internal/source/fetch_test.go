package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoaderFetchHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/path.csv":
			_, _ = w.Write([]byte("0,0,0,0,0,0\n10,0,0,0,0,0\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(2*time.Second, zaptest.NewLogger(t))

	ds, err := l.Load(context.Background(), srv.URL+"/path.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, srv.URL+"/path.csv", ds.Location)

	_, err = l.Load(context.Background(), srv.URL+"/missing.csv", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(2), hits.Load())
}

func TestLoaderFetchFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "route.json")
	require.NoError(t, os.WriteFile(p, []byte(`[{"position":[0,0,0]},{"position":[0,0,3],"pause":1}]`), 0644))

	l := NewLoader(time.Second, nil)
	ds, err := l.Load(context.Background(), p, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	_, err = l.Load(context.Background(), filepath.Join(dir, "nope.csv"), Options{})
	assert.Error(t, err)
}

func TestLoaderLoadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, body := range []string{
		"0,0,0,0,0,0\n1,0,0,0,0,0\n",
		"0,0,0,0,0,0\n1,0,0,0,0,0\n2,0,0,0,0,0\n",
		"0,0,0,0,0,0\n",
	} {
		p := filepath.Join(dir, []string{"a.csv", "b.csv", "c.csv"}[i])
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		paths = append(paths, p)
	}

	l := NewLoader(time.Second, zaptest.NewLogger(t))
	all, err := l.LoadAll(context.Background(), paths, Options{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[0].Len())
	assert.Equal(t, 3, all[1].Len())
	assert.Equal(t, 1, all[2].Len())

	_, err = l.LoadAll(context.Background(), append(paths, filepath.Join(dir, "missing.csv")), Options{})
	assert.Error(t, err)
}
