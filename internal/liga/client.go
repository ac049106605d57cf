// Package liga scrapes card and edition data from the Liga Pokémon
// website. It is the anti-corruption layer between the site's unstable
// markup and our models: selector breakage surfaces as *FetchError,
// never as half-parsed data.
package liga

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cardhub/pkg/models"
)

const defaultBaseURL = "https://www.ligapokemon.com.br"

// CardRef identifies one card on the site: card number, set number and
// the edition slug, all taken verbatim from the caller.
type CardRef struct {
	CardID      string
	SetID       string
	EditionSlug string
}

// CardData is the parsed card detail, fields already normalized.
type CardData struct {
	CardID      string
	SetID       string
	EditionCode string
	Name        string
	Rarity      string
}

// EditionData is the edition panel parsed from a card detail page.
type EditionData struct {
	Code string
	Name string
	Year string
}

// FetchError wraps a network or parse failure against one URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("liga fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client loads and parses Liga detail pages. Parsed documents are
// cached per URL for the lifetime of the instance, so fetching the card
// and the edition from the same page costs one HTTP request. Create a
// fresh client per logical operation; the cache is never shared across
// requests.
type Client struct {
	client  *http.Client
	baseURL string
	docs    map[string]*goquery.Document
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return newClient(&http.Client{Timeout: 30 * time.Second}, baseURL)
}

// newClient exists for tests, which inject the http.Client and baseURL.
func newClient(client *http.Client, baseURL string) *Client {
	return &Client{
		client:  client,
		baseURL: baseURL,
		docs:    make(map[string]*goquery.Document),
	}
}

func (c *Client) cardURL(ref CardRef) string {
	q := url.Values{}
	q.Set("view", "cards/search")
	q.Set("card", ref.CardID+"/"+ref.SetID)
	q.Set("ed", ref.EditionSlug)
	return c.baseURL + "/?" + q.Encode()
}

func (c *Client) load(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if doc, ok := c.docs[pageURL]; ok {
		return doc, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("status %d", res.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("parse html: %w", err)}
	}

	c.docs[pageURL] = doc
	return doc, nil
}

func selectText(doc *goquery.Document, selector string) (string, error) {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return "", fmt.Errorf("missing %s", selector)
	}
	return strings.TrimSpace(sel.First().Text()), nil
}

// FetchCard loads the detail page for ref and extracts name and rarity.
func (c *Client) FetchCard(ctx context.Context, ref CardRef) (CardData, error) {
	pageURL := c.cardURL(ref)
	doc, err := c.load(ctx, pageURL)
	if err != nil {
		return CardData{}, err
	}

	name, err := selectText(doc, ".item-name")
	if err != nil {
		return CardData{}, &FetchError{URL: pageURL, Err: err}
	}
	rarity, err := selectText(doc, "#details-screen-rarity")
	if err != nil {
		return CardData{}, &FetchError{URL: pageURL, Err: err}
	}

	return CardData{
		CardID:      ref.CardID,
		SetID:       ref.SetID,
		EditionCode: ref.EditionSlug,
		Name:        models.NormalizeName(name),
		Rarity:      models.NormalizeRarity(rarity),
	}, nil
}

// FetchEdition extracts the edition panel from ref's detail page. It
// keys off the same URL as FetchCard, so a card-plus-edition fetch for
// one ref loads the page once.
func (c *Client) FetchEdition(ctx context.Context, ref CardRef) (EditionData, error) {
	pageURL := c.cardURL(ref)
	doc, err := c.load(ctx, pageURL)
	if err != nil {
		return EditionData{}, err
	}

	code, err := selectText(doc, ".sigla-edition")
	if err != nil {
		return EditionData{}, &FetchError{URL: pageURL, Err: err}
	}
	name, err := selectText(doc, ".name-edition")
	if err != nil {
		return EditionData{}, &FetchError{URL: pageURL, Err: err}
	}
	year, err := selectText(doc, ".year-edition")
	if err != nil {
		return EditionData{}, &FetchError{URL: pageURL, Err: err}
	}

	return EditionData{
		Code: code,
		Name: models.NormalizeName(name),
		Year: models.NormalizeYear(year),
	}, nil
}

// DownloadImage saves the image at imageURL under filename.
func (c *Client) DownloadImage(ctx context.Context, imageURL, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return &FetchError{URL: imageURL, Err: err}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return &FetchError{URL: imageURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return &FetchError{URL: imageURL, Err: fmt.Errorf("status %d", res.StatusCode)}
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("ensure image dir: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, res.Body); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
