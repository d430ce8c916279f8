package nuvei

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() HostedPageParams {
	return BuildParams(Overrides{
		MerchantID:     "m1",
		MerchantSiteID: "s1",
		TotalAmount:    "1.00",
		Currency:       "USD",
		UserTokenID:    "demo@nuvei.local",
		ItemName:       "Test item",
		ItemAmount:     "1.00",
		ItemQuantity:   "1",
		TimeStamp:      "2024-01-01.00:00:00",
		Version:        "4.0.0",
		NotifyURL:      "https://app.example/api/notify",
		ThemeID:        "223482",
	})
}

func TestChecksum_KnownVector(t *testing.T) {
	p := testParams()

	concat := "m1" + "s1" + "1.00" + "USD" + "demo@nuvei.local" +
		"Test item" + "1.00" + "1" + "2024-01-01.00:00:00" + "4.0.0" +
		"https://app.example/api/notify" + "223482"
	sum := sha256.Sum256([]byte("k1" + concat))
	want := hex.EncodeToString(sum[:])

	assert.Equal(t, want, Checksum("k1", p))

	// Pinned digest shared with the browser signer's self-test fixture
	// (web/static/nuvei-client.js). Both sides must produce this string.
	assert.Equal(t,
		"65cba61bb6c361dba3b5e963fe4b7b2ac60de774982c811051126195157e9a23",
		Checksum("k1", p))
}

func TestChecksum_Deterministic(t *testing.T) {
	p := testParams()
	assert.Equal(t, Checksum("k1", p), Checksum("k1", p))
}

func TestChecksum_SecretNewlineTolerance(t *testing.T) {
	p := testParams()
	assert.Equal(t, Checksum("k1", p), Checksum("k1\n", p))
	assert.Equal(t, Checksum("k1", p), Checksum("  k1\r\n", p))
}

func TestChecksum_OmittedThemeID(t *testing.T) {
	withTheme := testParams()
	without := withTheme
	without.ThemeID = ""

	assert.NotEqual(t, Checksum("k1", withTheme), Checksum("k1", without))

	concat := "m1s11.00USDdemo@nuvei.localTest item1.0012024-01-01.00:00:004.0.0https://app.example/api/notify"
	sum := sha256.Sum256([]byte("k1" + concat))
	assert.Equal(t, hex.EncodeToString(sum[:]), Checksum("k1", without))
}

func TestSanitize_Idempotent(t *testing.T) {
	for _, s := range []string{"  abc\r\n", "a\nb", "", "  ", "clean"} {
		once := Sanitize(s)
		assert.Equal(t, once, Sanitize(once), "input %q", s)
	}
}

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "2024-01-02.03:04:05", ts)
}

func TestBuildParams_Defaults(t *testing.T) {
	p := BuildParams(Overrides{MerchantID: "m1", MerchantSiteID: "s1"})
	assert.Equal(t, "1.00", p.TotalAmount)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "demo@nuvei.local", p.UserTokenID)
	assert.Equal(t, "Test item", p.ItemName)
	assert.Equal(t, "1.00", p.ItemAmount)
	assert.Equal(t, "1", p.ItemQuantity)
	assert.Equal(t, "4.0.0", p.Version)
	assert.NotEmpty(t, p.TimeStamp)
}

func TestBuildParams_ItemAmountFollowsTotal(t *testing.T) {
	p := BuildParams(Overrides{TotalAmount: "9.99"})
	assert.Equal(t, "9.99", p.ItemAmount)
}

func TestBuildParams_SanitizesFields(t *testing.T) {
	p := BuildParams(Overrides{MerchantID: " m1\n", ThemeID: "  \r\n"})
	assert.Equal(t, "m1", p.MerchantID)
	assert.Equal(t, "", p.ThemeID, "blank theme id after sanitization is omitted")
}

func TestBuildParams_DeterministicExceptTimestamp(t *testing.T) {
	a := BuildParams(Overrides{MerchantID: "m1"})
	b := BuildParams(Overrides{MerchantID: "m1"})
	a.TimeStamp = ""
	b.TimeStamp = ""
	assert.Equal(t, a, b)
}

func TestQueryString_OrderAndOmission(t *testing.T) {
	p := testParams()
	qs := QueryString(p)

	wantOrder := []string{
		"merchant_id=", "merchant_site_id=", "total_amount=", "currency=",
		"user_token_id=", "item_name_1=", "item_amount_1=", "item_quantity_1=",
		"time_stamp=", "version=", "notify_url=", "theme_id=",
	}
	last := -1
	for _, key := range wantOrder {
		i := strings.Index(qs, key)
		require.GreaterOrEqual(t, i, 0, "missing %s", key)
		assert.Greater(t, i, last, "%s out of order", key)
		last = i
	}

	p.ThemeID = ""
	assert.NotContains(t, QueryString(p), "theme_id")
}

func TestBuildHostedURL(t *testing.T) {
	p := testParams()
	u := BuildHostedURL("", p, "k1", ThemeTypeDesktop)

	assert.True(t, strings.HasPrefix(u, SandboxBaseURL+"?"))
	assert.Contains(t, u, "checksum="+Checksum("k1", p))
	assert.Contains(t, u, "themeType=DESKTOP")

	// checksum precedes the unsigned themeType flag
	assert.Less(t, strings.Index(u, "checksum="), strings.Index(u, "themeType="))

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "m1", q.Get("merchant_id"))
	assert.Equal(t, "Test item", q.Get("item_name_1"))
	assert.Equal(t, "223482", q.Get("theme_id"))
}

func TestAppendThemeType_RoundTrip(t *testing.T) {
	p := testParams()
	base := NormalizeBaseURL("") + "?" + QueryString(p) + "&checksum=" + Checksum("k1", p)

	u1 := AppendThemeType(base, ThemeTypeSmartphone)
	u2 := AppendThemeType(u1, ThemeTypeDesktop)

	assert.Equal(t, 1, strings.Count(u2, "themeType="))
	assert.Contains(t, u2, "themeType=DESKTOP")
	assert.NotContains(t, u2, "themeType=SMARTPHONE")

	// signed portion byte-identical before and after either call
	signed := func(s string) string {
		return strings.TrimSuffix(strings.TrimSuffix(s, "&themeType=DESKTOP"), "&themeType=SMARTPHONE")
	}
	assert.Equal(t, base, signed(u1))
	assert.Equal(t, base, signed(u2))
}

func TestAppendThemeType_NoQuery(t *testing.T) {
	u := AppendThemeType("https://ppp-test.safecharge.com/ppp/purchase.do", ThemeTypeSmartphone)
	assert.Equal(t, "https://ppp-test.safecharge.com/ppp/purchase.do?themeType=SMARTPHONE", u)
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, SandboxBaseURL, NormalizeBaseURL(""))
	assert.Equal(t, SandboxBaseURL, NormalizeBaseURL("https://ppp-test.safecharge.com"))
	assert.Equal(t, SandboxBaseURL, NormalizeBaseURL("https://ppp-test.safecharge.com/ppp/purchase.do/"))
	assert.Equal(t, SandboxBaseURL, NormalizeBaseURL(" https://ppp-test.safecharge.com/ppp/purchase.do?x=1\n"))
	assert.Equal(t, ProductionBaseURL, NormalizeBaseURL("https://secure.nuvei.com/ppp/purchase.do"))
}

func TestUpstreamOrigin(t *testing.T) {
	assert.Equal(t, "https://ppp-test.safecharge.com", UpstreamOrigin(""))
	assert.Equal(t, "https://secure.nuvei.com", UpstreamOrigin(ProductionBaseURL))
}

func TestParseThemeType(t *testing.T) {
	assert.Equal(t, ThemeTypeSmartphone, ParseThemeType("smartphone"))
	assert.Equal(t, ThemeTypeDesktop, ParseThemeType("DESKTOP"))
	assert.Equal(t, ThemeTypeDesktop, ParseThemeType("tablet"))
	assert.Equal(t, ThemeTypeDesktop, ParseThemeType(""))
}
