package ads

import (
	"context"
	"fmt"
	"net/http"
)

// PromotedTweetSchema declares the promoted tweet properties.
var PromotedTweetSchema = RegisterSchema(NewSchema("promoted_tweet",
	Plain("id").Immutable(),
	Plain("approval_status").Immutable(),
	Plain("entity_status").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Bool("deleted").Immutable(),
	Plain("line_item_id"),
	Plain("tweet_id"),
))

var promotedTweetPaths = endpoints{
	collection: accountScope + "/promoted_tweets",
	resource:   accountScope + "/promoted_tweets/%{id}",
}

// PromotedTweet associates a tweet with a line item.
type PromotedTweet struct {
	entity
}

// NewPromotedTweet returns an unsaved promoted tweet owned by account.
func NewPromotedTweet(account *Account) *PromotedTweet {
	return &PromotedTweet{entity: newEntity(PromotedTweetSchema, account, promotedTweetPaths)}
}

// LineItemID returns the line item the tweet is promoted under.
func (p *PromotedTweet) LineItemID() string { return p.String("line_item_id") }

// TweetID returns the promoted tweet id.
func (p *PromotedTweet) TweetID() string { return p.String("tweet_id") }

// Promote associates tweets with the line item. The API creates one promoted
// tweet per tweet id; the returned slice follows the response order.
func (p *PromotedTweet) Promote(ctx context.Context, lineItemID string, tweetIDs ...string) ([]*PromotedTweet, error) {
	return promoteTweets(ctx, p.account, lineItemID, tweetIDs)
}

// Save creates the promoted tweet from its line_item_id and tweet_id.
func (p *PromotedTweet) Save(ctx context.Context) error {
	created, err := promoteTweets(ctx, p.account, p.LineItemID(), []string{p.TweetID()})
	if err != nil {
		return err
	}

	if len(created) > 0 {
		p.Hydrate(created[0].Values())
	}

	return nil
}

// Delete deletes the promoted tweet.
func (p *PromotedTweet) Delete(ctx context.Context) error { return p.delete(ctx) }

// Stats fetches synchronous analytics for the promoted tweet.
func (p *PromotedTweet) Stats(ctx context.Context, metricGroups []string, opts StatsOptions) ([]any, error) {
	return entityStats(ctx, &p.entity, EntityPromotedTweet, metricGroups, opts)
}

func promoteTweets(ctx context.Context, account *Account, lineItemID string, tweetIDs []string) ([]*PromotedTweet, error) {
	e := NewPromotedTweet(account).base()

	pathParams, err := e.accountParams()
	if err != nil {
		return nil, err
	}

	req := NewRequest(http.MethodPost, e.paths.collection,
		WithPathParams(pathParams),
		WithParams(Params{"line_item_id": lineItemID, "tweet_ids": tweetIDs}))

	resp, err := req.Perform(ctx, account.client)
	if err != nil {
		return nil, err
	}

	body, err := resp.Body()
	if err != nil {
		return nil, fmt.Errorf("reading promoted tweets: %w", err)
	}

	items, err := collectionItems(body)
	if err != nil {
		return nil, err
	}

	out := make([]*PromotedTweet, 0, len(items))

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		tweet := NewPromotedTweet(account)
		tweet.Hydrate(obj)
		out = append(out, tweet)
	}

	return out, nil
}

// PromotedAccountSchema declares the promoted account properties.
var PromotedAccountSchema = RegisterSchema(NewSchema("promoted_account",
	Plain("id").Immutable(),
	Plain("approval_status").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Bool("deleted").Immutable(),
	Plain("line_item_id"),
	Plain("user_id"),
	Bool("paused"),
))

var promotedAccountPaths = endpoints{
	collection: accountScope + "/promoted_accounts",
	resource:   accountScope + "/promoted_accounts/%{id}",
}

// PromotedAccount promotes a user account under a line item.
type PromotedAccount struct {
	entity
}

// NewPromotedAccount returns an unsaved promoted account owned by account.
func NewPromotedAccount(account *Account) *PromotedAccount {
	return &PromotedAccount{entity: newEntity(PromotedAccountSchema, account, promotedAccountPaths)}
}

// SetLineItemID sets the line item.
func (p *PromotedAccount) SetLineItemID(id string) { p.set("line_item_id", id) }

// SetUserID sets the promoted user.
func (p *PromotedAccount) SetUserID(id string) { p.set("user_id", id) }

// Save creates or updates the promoted account.
func (p *PromotedAccount) Save(ctx context.Context) error { return p.save(ctx) }

// Delete deletes the promoted account.
func (p *PromotedAccount) Delete(ctx context.Context) error { return p.delete(ctx) }

// MediaCreativeSchema declares the media creative properties.
var MediaCreativeSchema = RegisterSchema(NewSchema("media_creative",
	Plain("id").Immutable(),
	Bool("deleted").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Plain("approval_status").Immutable(),
	Plain("serving_status").Immutable(),
	Plain("line_item_id"),
	Plain("account_media_id"),
	Plain("landing_url"),
))

var mediaCreativePaths = endpoints{
	collection: accountScope + "/media_creatives",
	resource:   accountScope + "/media_creatives/%{id}",
}

// MediaCreative attaches account media to a line item.
type MediaCreative struct {
	entity
}

// NewMediaCreative returns an unsaved media creative owned by account.
func NewMediaCreative(account *Account) *MediaCreative {
	return &MediaCreative{entity: newEntity(MediaCreativeSchema, account, mediaCreativePaths)}
}

// SetLineItemID sets the line item.
func (m *MediaCreative) SetLineItemID(id string) { m.set("line_item_id", id) }

// SetAccountMediaID sets the account media.
func (m *MediaCreative) SetAccountMediaID(id string) { m.set("account_media_id", id) }

// SetLandingURL sets the landing URL.
func (m *MediaCreative) SetLandingURL(url string) { m.set("landing_url", url) }

// Save creates or updates the media creative.
func (m *MediaCreative) Save(ctx context.Context) error { return m.save(ctx) }

// Delete deletes the media creative.
func (m *MediaCreative) Delete(ctx context.Context) error { return m.delete(ctx) }

// Stats fetches synchronous analytics for the media creative.
func (m *MediaCreative) Stats(ctx context.Context, metricGroups []string, opts StatsOptions) ([]any, error) {
	return entityStats(ctx, &m.entity, EntityMediaCreative, metricGroups, opts)
}

// AppDownloadCardSchema declares the app download card properties.
var AppDownloadCardSchema = RegisterSchema(NewSchema("app_download_card",
	Plain("id").Immutable(),
	Plain("preview_url").Immutable(),
	Bool("deleted").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Plain("name"),
	Plain("app_country_code"),
	Plain("iphone_app_id"),
	Plain("iphone_deep_link"),
	Plain("ipad_app_id"),
	Plain("ipad_deep_link"),
	Plain("googleplay_app_id"),
	Plain("googleplay_deep_link"),
	Plain("app_cta"),
	Plain("custom_icon_media_id"),
	Plain("custom_app_description"),
))

var appDownloadCardPaths = endpoints{
	collection: accountScope + "/cards/app_download",
	resource:   accountScope + "/cards/app_download/%{id}",
}

// AppDownloadCard is a card promoting a mobile app install.
type AppDownloadCard struct {
	entity
}

// NewAppDownloadCard returns an unsaved card owned by account.
func NewAppDownloadCard(account *Account) *AppDownloadCard {
	return &AppDownloadCard{entity: newEntity(AppDownloadCardSchema, account, appDownloadCardPaths)}
}

// Save creates or updates the card.
func (c *AppDownloadCard) Save(ctx context.Context) error { return c.save(ctx) }

// Delete deletes the card.
func (c *AppDownloadCard) Delete(ctx context.Context) error { return c.delete(ctx) }

// ImageAppDownloadCardSchema declares the image app download card properties.
var ImageAppDownloadCardSchema = RegisterSchema(NewSchema("image_app_download_card",
	Plain("id").Immutable(),
	Plain("card_type").Immutable(),
	Plain("card_uri").Immutable(),
	Bool("deleted").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Plain("image_display_height").Immutable(),
	Plain("image_display_width").Immutable(),
	Plain("media_url").Immutable(),
	Plain("name"),
	Plain("country_code"),
	Plain("app_cta"),
	Plain("googleplay_app_id"),
	Plain("googleplay_deep_link"),
	Plain("ios_app_store_identifier"),
	Plain("ios_deep_link"),
	Plain("media_key"),
))

var imageAppDownloadCardPaths = endpoints{
	collection: accountScope + "/cards/image_app_download",
	resource:   accountScope + "/cards/image_app_download/%{id}",
}

// ImageAppDownloadCard is an app install card built around one image.
type ImageAppDownloadCard struct {
	entity
}

// NewImageAppDownloadCard returns an unsaved card owned by account.
func NewImageAppDownloadCard(account *Account) *ImageAppDownloadCard {
	return &ImageAppDownloadCard{entity: newEntity(ImageAppDownloadCardSchema, account, imageAppDownloadCardPaths)}
}

// SetName sets the card name.
func (c *ImageAppDownloadCard) SetName(name string) { c.set("name", name) }

// SetMediaKey sets the image shown on the card.
func (c *ImageAppDownloadCard) SetMediaKey(key string) { c.set("media_key", key) }

// SetCountryCode sets the app store country.
func (c *ImageAppDownloadCard) SetCountryCode(code string) { c.set("country_code", code) }

// SetAppCTA sets the call to action.
func (c *ImageAppDownloadCard) SetAppCTA(cta string) { c.set("app_cta", cta) }

// SetIOSAppStoreIdentifier sets the App Store id.
func (c *ImageAppDownloadCard) SetIOSAppStoreIdentifier(id string) { c.set("ios_app_store_identifier", id) }

// SetGooglePlayAppID sets the Google Play package name.
func (c *ImageAppDownloadCard) SetGooglePlayAppID(id string) { c.set("googleplay_app_id", id) }

// CardURI returns the URI used to attach the card to a tweet.
func (c *ImageAppDownloadCard) CardURI() string { return c.String("card_uri") }

// Save creates or updates the card.
func (c *ImageAppDownloadCard) Save(ctx context.Context) error { return c.save(ctx) }

// Delete deletes the card.
func (c *ImageAppDownloadCard) Delete(ctx context.Context) error { return c.delete(ctx) }

// VideoAppDownloadCardSchema declares the video app download card properties.
var VideoAppDownloadCardSchema = RegisterSchema(NewSchema("video_app_download_card",
	Plain("id").Immutable(),
	Plain("preview_url").Immutable(),
	Plain("video_url").Immutable(),
	Plain("video_poster_url").Immutable(),
	Bool("deleted").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Plain("name"),
	Plain("app_country_code"),
	Plain("iphone_app_id"),
	Plain("iphone_deep_link"),
	Plain("ipad_app_id"),
	Plain("ipad_deep_link"),
	Plain("googleplay_app_id"),
	Plain("googleplay_deep_link"),
	Plain("app_cta"),
	Plain("image_media_id"),
	Plain("video_id"),
))

var videoAppDownloadCardPaths = endpoints{
	collection: accountScope + "/cards/video_app_download",
	resource:   accountScope + "/cards/video_app_download/%{id}",
}

// VideoAppDownloadCard is an app install card playing a video.
type VideoAppDownloadCard struct {
	entity
}

// NewVideoAppDownloadCard returns an unsaved card owned by account.
func NewVideoAppDownloadCard(account *Account) *VideoAppDownloadCard {
	return &VideoAppDownloadCard{entity: newEntity(VideoAppDownloadCardSchema, account, videoAppDownloadCardPaths)}
}

// SetName sets the card name.
func (c *VideoAppDownloadCard) SetName(name string) { c.set("name", name) }

// SetVideoID sets the video played by the card.
func (c *VideoAppDownloadCard) SetVideoID(id string) { c.set("video_id", id) }

// SetImageMediaID sets the poster image.
func (c *VideoAppDownloadCard) SetImageMediaID(id string) { c.set("image_media_id", id) }

// SetAppCountryCode sets the app store country.
func (c *VideoAppDownloadCard) SetAppCountryCode(code string) { c.set("app_country_code", code) }

// SetIPhoneAppID sets the App Store id.
func (c *VideoAppDownloadCard) SetIPhoneAppID(id string) { c.set("iphone_app_id", id) }

// VideoURL returns the hosted video location.
func (c *VideoAppDownloadCard) VideoURL() string { return c.String("video_url") }

// Save creates or updates the card.
func (c *VideoAppDownloadCard) Save(ctx context.Context) error { return c.save(ctx) }

// Delete deletes the card.
func (c *VideoAppDownloadCard) Delete(ctx context.Context) error { return c.delete(ctx) }

// LeadGenCardSchema declares the lead generation card properties.
var LeadGenCardSchema = RegisterSchema(NewSchema("lead_gen_card",
	Plain("id").Immutable(),
	Plain("preview_url").Immutable(),
	Bool("deleted").Immutable(),
	Time("created_at").Immutable(),
	Time("updated_at").Immutable(),
	Plain("name"),
	Plain("image_media_id"),
	Plain("cta"),
	Plain("fallback_url"),
	Plain("privacy_policy_url"),
	Plain("title"),
	Plain("submit_url"),
	Plain("submit_method"),
	Plain("custom_destination_url"),
	Plain("custom_destination_text"),
	Plain("custom_key_screen_name"),
	Plain("custom_key_name"),
	Plain("custom_key_email"),
))

var leadGenCardPaths = endpoints{
	collection: accountScope + "/cards/lead_gen",
	resource:   accountScope + "/cards/lead_gen/%{id}",
}

// LeadGenCard is a card collecting contact details.
type LeadGenCard struct {
	entity
}

// NewLeadGenCard returns an unsaved card owned by account.
func NewLeadGenCard(account *Account) *LeadGenCard {
	return &LeadGenCard{entity: newEntity(LeadGenCardSchema, account, leadGenCardPaths)}
}

// Save creates or updates the card.
func (c *LeadGenCard) Save(ctx context.Context) error { return c.save(ctx) }

// Delete deletes the card.
func (c *LeadGenCard) Delete(ctx context.Context) error { return c.delete(ctx) }
