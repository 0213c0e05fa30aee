package leadlink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
	"github.com/webtolk/amocrm-radicalmart/pkg/i18n"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/redis"
)

var linkTemplate = template.Must(template.New("amocrmleadlink").Parse(
	`<a href="{{.URL}}" target="_blank">{{.Text}}</a>`,
))

// LeadFinder resolves the lead linked to an order.
type LeadFinder interface {
	FindLeadID(ctx context.Context, orderID int64) (int64, error)
}

// DomainResolver returns the AmoCRM account domain.
type DomainResolver interface {
	BaseDomain(ctx context.Context) (string, error)
}

// Link points at the lead page of an order in the CRM.
type Link struct {
	OrderID int64
	LeadID  int64
	URL     string
	Text    string
}

// Field is the read-only admin field showing the lead link. It has no title and no label.
type Field struct{}

func (Field) Label() string { return "" }

func (f Field) Title() string { return f.Label() }

// Renderer builds lead links for the order edit screen.
type Renderer struct {
	leads    LeadFinder
	domains  DomainResolver
	cache    redis.Cache
	cacheTTL time.Duration
	tr       *i18n.Translator
	logg     *logger.Logger
}

// NewRenderer wires the renderer. cache may be nil, in which case the domain is resolved on every call.
func NewRenderer(leads LeadFinder, domains DomainResolver, cache redis.Cache, cacheTTL time.Duration, tr *i18n.Translator, logg *logger.Logger) (*Renderer, error) {
	if leads == nil {
		return nil, errors.New("lead finder required")
	}
	if domains == nil {
		return nil, errors.New("domain resolver required")
	}
	if tr == nil {
		tr = i18n.MustNew("")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Renderer{
		leads:    leads,
		domains:  domains,
		cache:    cache,
		cacheTTL: cacheTTL,
		tr:       tr,
		logg:     logg,
	}, nil
}

// Link returns nil when the order has no lead or the account domain cannot be resolved.
func (r *Renderer) Link(ctx context.Context, orderID int64) (*Link, error) {
	leadID, err := r.leads.FindLeadID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if leadID <= 0 {
		return nil, nil
	}

	domain, err := r.baseDomain(ctx)
	if err != nil {
		r.logg.Warn(r.logg.WithField(r.logg.WithOrderID(ctx, orderID), "error", err.Error()), "leadlink.domain_unresolved")
		return nil, nil
	}
	if domain == "" {
		return nil, nil
	}

	u := url.URL{Scheme: "https", Host: domain, Path: fmt.Sprintf("/leads/detail/%d", leadID)}
	return &Link{
		OrderID: orderID,
		LeadID:  leadID,
		URL:     u.String(),
		Text:    r.tr.Format(i18n.KeyLeadLinkField, leadID),
	}, nil
}

// Render returns the anchor markup of the field, or "" when there is no link.
func (r *Renderer) Render(ctx context.Context, orderID int64) (template.HTML, error) {
	link, err := r.Link(ctx, orderID)
	if err != nil || link == nil {
		return "", err
	}
	return RenderLink(*link)
}

// RenderLink renders the anchor for an already resolved link.
func RenderLink(link Link) (template.HTML, error) {
	var buf bytes.Buffer
	if err := linkTemplate.Execute(&buf, link); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render lead link")
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) baseDomain(ctx context.Context) (string, error) {
	var key string
	if r.cache != nil {
		key = r.cache.CacheKey("amocrm", "base_domain")
		cached, err := r.cache.Get(ctx, key)
		if err == nil && cached != "" {
			return cached, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "leadlink.cache_read_failed")
		}
	}

	domain, err := r.domains.BaseDomain(ctx)
	if err != nil {
		return "", err
	}
	domain = hostOnly(domain)

	if r.cache != nil && domain != "" {
		if err := r.cache.Set(ctx, key, domain, r.cacheTTL); err != nil {
			r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "leadlink.cache_write_failed")
		}
	}
	return domain, nil
}

// hostOnly strips a scheme and trailing path from a configured domain.
func hostOnly(domain string) string {
	d := strings.TrimSpace(domain)
	if d == "" {
		return ""
	}
	if strings.Contains(d, "://") {
		if u, err := url.Parse(d); err == nil {
			return u.Host
		}
	}
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}
