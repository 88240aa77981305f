package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/craftcost/internal/domain"
	"github.com/vadiminshakov/craftcost/pkg/retrier"
)

const quotesYAML = `
quotes:
  - item_id: iron_ore
    name: Iron Ore
    best_buyout: 12.5
    market_value: 14
    quantity: 320
  - item_id: coal
    market_value: "3"
`

const recipesJSON = `{
  "recipes": [
    {
      "id": "smelt_iron",
      "name": "Iron Bar",
      "profession": "smithing",
      "skill_level": 10,
      "result_item_id": "iron_bar",
      "result_quantity": 1,
      "materials": [{"item_id": "iron_ore", "quantity": 2}, {"item_id": "coal", "quantity": 1}]
    }
  ]
}`

type fetcherMock struct {
	mock.Mock
}

func (m *fetcherMock) Fetch(ctx context.Context, source string) ([]byte, error) {
	args := m.Called(ctx, source)
	payload, _ := args.Get(0).([]byte)
	return payload, args.Error(1)
}

func TestDecodeQuotes(t *testing.T) {
	quotes, err := DecodeQuotes([]byte(quotesYAML))
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "iron_ore", quotes[0].ItemID)
	assert.Equal(t, "Iron Ore", quotes[0].DisplayName)
	assert.True(t, decimal.RequireFromString("12.5").Equal(quotes[0].BestBuyout))
	assert.Equal(t, int64(320), quotes[0].AvailableQuantity)
	assert.True(t, decimal.NewFromInt(3).Equal(quotes[1].MarketValue))

	_, err = DecodeQuotes([]byte("items: []"))
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = DecodeQuotes([]byte("quotes: [unclosed"))
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	empty, err := DecodeQuotes([]byte("quotes: []"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeRecipes(t *testing.T) {
	recipes, err := DecodeRecipes([]byte(recipesJSON))
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	r := recipes[0]
	assert.Equal(t, "smelt_iron", r.ID)
	assert.Equal(t, "smithing", r.Profession)
	assert.Equal(t, 10, r.SkillLevel)
	assert.Equal(t, int64(1), r.ResultQuantity)
	assert.Equal(t, []domain.Material{{ItemID: "iron_ore", Quantity: 2}, {ItemID: "coal", Quantity: 1}}, r.Materials)

	_, err = DecodeRecipes([]byte(`{"quotes": []}`))
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestLoader_Load(t *testing.T) {
	m := &fetcherMock{}
	m.On("Fetch", mock.Anything, "quotes.yaml").Return([]byte(quotesYAML), nil)
	m.On("Fetch", mock.Anything, "recipes.json").Return([]byte(recipesJSON), nil)

	data, err := NewLoader(zap.NewNop(), m).Load(context.Background(), "quotes.yaml", "recipes.json")
	require.NoError(t, err)
	assert.Len(t, data.Quotes, 2)
	assert.Len(t, data.Recipes, 1)
	m.AssertExpectations(t)
}

func TestLoader_LoadFailure(t *testing.T) {
	m := &fetcherMock{}
	m.On("Fetch", mock.Anything, "quotes.yaml").Return([]byte(quotesYAML), nil).Maybe()
	m.On("Fetch", mock.Anything, "missing.json").Return(nil, errors.New("no such file"))

	_, err := NewLoader(zap.NewNop(), m).Load(context.Background(), "quotes.yaml", "missing.json")
	require.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "no such file")
}

func TestLoader_LoadFailureKeepsCause(t *testing.T) {
	m := &fetcherMock{}
	m.On("Fetch", mock.Anything, "quotes.yaml").Return(nil, os.ErrNotExist)
	m.On("Fetch", mock.Anything, "recipes.json").Return([]byte(recipesJSON), nil).Maybe()

	_, err := NewLoader(zap.NewNop(), m).Load(context.Background(), "quotes.yaml", "recipes.json")
	require.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLoader(zap.NewNop(), NewSourceFetcher(zap.NewNop(), nil, nil)).Load(ctx, "https://example.invalid/q.yaml", "https://example.invalid/r.yaml")
	require.ErrorIs(t, err, domain.ErrDataUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceFetcher_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quotes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(quotesYAML), 0o600))

	f := NewSourceFetcher(zap.NewNop(), nil, nil)
	payload, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, quotesYAML, string(payload))

	_, err = f.Fetch(context.Background(), filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestSourceFetcher_HTTP(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flaky":
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(recipesJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := retrier.New(retrier.WithMaxRetries(3), retrier.WithInitialInterval(time.Millisecond))
	f := NewSourceFetcher(zap.NewNop(), srv.Client(), r)

	payload, err := f.Fetch(context.Background(), srv.URL+"/flaky")
	require.NoError(t, err)
	assert.Equal(t, recipesJSON, string(payload))
	assert.Equal(t, int32(3), calls.Load())

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
