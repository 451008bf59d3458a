package ads

import (
	"context"
	"fmt"
	"net/http"
)

const (
	accountCollectionPath = "/" + APIVersion + "/accounts"
	accountResourcePath   = "/" + APIVersion + "/accounts/%{id}"
	accountFeaturesPath   = "/" + APIVersion + "/accounts/%{id}/features"
)

// AccountSchema declares the advertising account properties.
var AccountSchema = RegisterSchema(NewSchema("account",
	Plain("id").Immutable(),
	Plain("name").Immutable(),
	Plain("salt").Immutable(),
	Plain("timezone").Immutable(),
	Time("timezone_switch_at").Immutable(),
	Plain("approval_status").Immutable(),
	Plain("business_id").Immutable(),
	Plain("business_name").Immutable(),
	Plain("industry_type").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Bool("deleted").Immutable(),
))

// Account is an advertising account. Every other resource hangs off an
// account and reaches the API through the account's transport.
type Account struct {
	Object

	client Doer
}

// NewAccount returns an empty account bound to a transport.
func NewAccount(client Doer) *Account {
	return &Account{
		Object: NewObject(AccountSchema),
		client: client,
	}
}

// LoadAccount fetches one account by id.
func LoadAccount(ctx context.Context, client Doer, id string) (*Account, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: account id is empty", ErrNotLoaded)
	}

	account := NewAccount(client)
	account.set("id", id)

	if err := account.Reload(ctx, nil); err != nil {
		return nil, err
	}

	return account, nil
}

// ListAccounts returns a cursor over the accessible accounts.
func ListAccounts(ctx context.Context, client Doer, params Params) *Cursor[*Account] {
	req := NewRequest(http.MethodGet, accountCollectionPath, WithParams(params))

	return NewCursor(ctx, client, req, func(item map[string]any) (*Account, error) {
		account := NewAccount(client)
		account.Hydrate(item)

		return account, nil
	})
}

// Client returns the transport the account sends requests through.
func (a *Account) Client() Doer {
	return a.client
}

// Name returns the account name.
func (a *Account) Name() string {
	return a.String("name")
}

// Timezone returns the account time zone name.
func (a *Account) Timezone() string {
	return a.String("timezone")
}

// Reload refreshes the account properties.
func (a *Account) Reload(ctx context.Context, params Params) error {
	id, err := a.RequireID()
	if err != nil {
		return err
	}

	req := NewRequest(http.MethodGet, accountResourcePath,
		WithPathParams(map[string]string{"id": id}), WithParams(params))

	resp, err := req.Perform(ctx, a.client)
	if err != nil {
		return err
	}

	data, err := resp.DataObject()
	if err != nil {
		return fmt.Errorf("reading account: %w", err)
	}

	a.Hydrate(data)

	return nil
}

// Features returns the feature keys enabled for the account.
func (a *Account) Features(ctx context.Context, featureKeys ...string) ([]string, error) {
	id, err := a.RequireID()
	if err != nil {
		return nil, err
	}

	opts := []RequestOption{WithPathParams(map[string]string{"id": id})}
	if len(featureKeys) > 0 {
		opts = append(opts, WithParams(Params{"feature_keys": featureKeys}))
	}

	resp, err := NewRequest(http.MethodGet, accountFeaturesPath, opts...).Perform(ctx, a.client)
	if err != nil {
		return nil, err
	}

	data, err := resp.Data()
	if err != nil {
		return nil, fmt.Errorf("reading account features: %w", err)
	}

	items, _ := data.([]any)

	features := make([]string, 0, len(items))
	for _, item := range items {
		features = append(features, stringify(item))
	}

	return features, nil
}

// Campaigns lists the account's campaigns.
func (a *Account) Campaigns(ctx context.Context, params Params) *Cursor[*Campaign] {
	return listResources(ctx, a, NewCampaign, params)
}

// Campaign loads one campaign.
func (a *Account) Campaign(ctx context.Context, id string) (*Campaign, error) {
	return loadResource(ctx, a, NewCampaign, id, nil)
}

// LineItems lists the account's line items.
func (a *Account) LineItems(ctx context.Context, params Params) *Cursor[*LineItem] {
	return listResources(ctx, a, NewLineItem, params)
}

// LineItem loads one line item.
func (a *Account) LineItem(ctx context.Context, id string) (*LineItem, error) {
	return loadResource(ctx, a, NewLineItem, id, nil)
}

// FundingInstruments lists the account's funding instruments.
func (a *Account) FundingInstruments(ctx context.Context, params Params) *Cursor[*FundingInstrument] {
	return listResources(ctx, a, NewFundingInstrument, params)
}

// FundingInstrument loads one funding instrument.
func (a *Account) FundingInstrument(ctx context.Context, id string) (*FundingInstrument, error) {
	return loadResource(ctx, a, NewFundingInstrument, id, nil)
}

// PromotableUsers lists the users the account may promote.
func (a *Account) PromotableUsers(ctx context.Context, params Params) *Cursor[*PromotableUser] {
	return listResources(ctx, a, NewPromotableUser, params)
}

// PromotableUser loads one promotable user.
func (a *Account) PromotableUser(ctx context.Context, id string) (*PromotableUser, error) {
	return loadResource(ctx, a, NewPromotableUser, id, nil)
}

// PromotedTweets lists the account's promoted tweets.
func (a *Account) PromotedTweets(ctx context.Context, params Params) *Cursor[*PromotedTweet] {
	return listResources(ctx, a, NewPromotedTweet, params)
}

// PromotedTweet loads one promoted tweet.
func (a *Account) PromotedTweet(ctx context.Context, id string) (*PromotedTweet, error) {
	return loadResource(ctx, a, NewPromotedTweet, id, nil)
}

// PromotedAccounts lists the account's promoted accounts.
func (a *Account) PromotedAccounts(ctx context.Context, params Params) *Cursor[*PromotedAccount] {
	return listResources(ctx, a, NewPromotedAccount, params)
}

// PromotedAccount loads one promoted account.
func (a *Account) PromotedAccount(ctx context.Context, id string) (*PromotedAccount, error) {
	return loadResource(ctx, a, NewPromotedAccount, id, nil)
}

// MediaCreatives lists the account's media creatives.
func (a *Account) MediaCreatives(ctx context.Context, params Params) *Cursor[*MediaCreative] {
	return listResources(ctx, a, NewMediaCreative, params)
}

// MediaCreative loads one media creative.
func (a *Account) MediaCreative(ctx context.Context, id string) (*MediaCreative, error) {
	return loadResource(ctx, a, NewMediaCreative, id, nil)
}

// AppDownloadCards lists the account's app download cards.
func (a *Account) AppDownloadCards(ctx context.Context, params Params) *Cursor[*AppDownloadCard] {
	return listResources(ctx, a, NewAppDownloadCard, params)
}

// AppDownloadCard loads one app download card.
func (a *Account) AppDownloadCard(ctx context.Context, id string) (*AppDownloadCard, error) {
	return loadResource(ctx, a, NewAppDownloadCard, id, nil)
}

// ImageAppDownloadCards lists the account's image app download cards.
func (a *Account) ImageAppDownloadCards(ctx context.Context, params Params) *Cursor[*ImageAppDownloadCard] {
	return listResources(ctx, a, NewImageAppDownloadCard, params)
}

// ImageAppDownloadCard loads one image app download card.
func (a *Account) ImageAppDownloadCard(ctx context.Context, id string) (*ImageAppDownloadCard, error) {
	return loadResource(ctx, a, NewImageAppDownloadCard, id, nil)
}

// VideoAppDownloadCards lists the account's video app download cards.
func (a *Account) VideoAppDownloadCards(ctx context.Context, params Params) *Cursor[*VideoAppDownloadCard] {
	return listResources(ctx, a, NewVideoAppDownloadCard, params)
}

// VideoAppDownloadCard loads one video app download card.
func (a *Account) VideoAppDownloadCard(ctx context.Context, id string) (*VideoAppDownloadCard, error) {
	return loadResource(ctx, a, NewVideoAppDownloadCard, id, nil)
}

// LeadGenCards lists the account's lead generation cards.
func (a *Account) LeadGenCards(ctx context.Context, params Params) *Cursor[*LeadGenCard] {
	return listResources(ctx, a, NewLeadGenCard, params)
}

// LeadGenCard loads one lead generation card.
func (a *Account) LeadGenCard(ctx context.Context, id string) (*LeadGenCard, error) {
	return loadResource(ctx, a, NewLeadGenCard, id, nil)
}

// TailoredAudiences lists the account's tailored audiences.
func (a *Account) TailoredAudiences(ctx context.Context, params Params) *Cursor[*TailoredAudience] {
	return listResources(ctx, a, NewTailoredAudience, params)
}

// TailoredAudience loads one tailored audience.
func (a *Account) TailoredAudience(ctx context.Context, id string) (*TailoredAudience, error) {
	return loadResource(ctx, a, NewTailoredAudience, id, nil)
}

// TargetingCriteria lists the targeting criteria of the given line items.
func (a *Account) TargetingCriteria(ctx context.Context, lineItemIDs []string, params Params) *Cursor[*TargetingCriterion] {
	return listResources(ctx, a, NewTargetingCriterion, params.Merge(Params{"line_item_ids": lineItemIDs}))
}

// TargetingCriterion loads one targeting criterion.
func (a *Account) TargetingCriterion(ctx context.Context, id string) (*TargetingCriterion, error) {
	return loadResource(ctx, a, NewTargetingCriterion, id, nil)
}
