package htmlsanitizer_test

import (
	"reflect"
	"testing"

	"github.com/njchilds90/htmlsanitizer"
	"github.com/stretchr/testify/assert"
)

func TestAttrList_SetGetRemove(t *testing.T) {
	list := htmlsanitizer.NewAttrList([]string{"href", "x", "title", "y"})
	assert.Equal(t, 2, list.Len())

	v, ok := list.Value("title")
	assert.True(t, ok)
	assert.Equal(t, "y", v)

	list.Set("title", "z")
	v, _ = list.Value("title")
	assert.Equal(t, "z", v)

	list.Set("rel", "nofollow")
	assert.Equal(t, 3, list.Len())

	list.Remove("href")
	_, ok = list.Value("href")
	assert.False(t, ok)
	assert.Equal(t, 2, list.Len())
}

func TestAttrList_RemoveAt(t *testing.T) {
	list := htmlsanitizer.NewAttrList([]string{"a", "1", "b", "2", "c", "3"})
	list.RemoveAt(1)
	assert.Equal(t, []string{"a", "1", "c", "3"}, list.Pairs())
}

func TestAttrList_Dedup_KeepsLeftmost(t *testing.T) {
	list := htmlsanitizer.NewAttrList([]string{"class", "first", "id", "x", "class", "second"})
	list.Dedup()
	assert.Equal(t, []string{"class", "first", "id", "x"}, list.Pairs())
}

func TestAttrList_Pairs_RoundTrips(t *testing.T) {
	pairs := []string{"a", "1", "b", "2"}
	list := htmlsanitizer.NewAttrList(pairs)
	assert.Equal(t, pairs, list.Pairs())
}

func TestJoinElementPolicies_IdentityAndReject(t *testing.T) {
	rename := htmlsanitizer.RenameElementPolicy("div")
	assert.Equal(t, reflect.ValueOf(rename).Pointer(), reflect.ValueOf(htmlsanitizer.JoinElementPolicies(htmlsanitizer.IdentityElementPolicy, rename)).Pointer())
	assert.Equal(t, reflect.ValueOf(rename).Pointer(), reflect.ValueOf(htmlsanitizer.JoinElementPolicies(rename, htmlsanitizer.IdentityElementPolicy)).Pointer())
	assert.Equal(t, htmlsanitizer.RejectAllElementPolicy, htmlsanitizer.JoinElementPolicies(rename, htmlsanitizer.RejectAllElementPolicy))
}

func TestJoinElementPolicies_FailFast(t *testing.T) {
	var bCalled bool
	a := htmlsanitizer.ElementPolicyFunc(func(_ string, _ *htmlsanitizer.AttrList) (string, bool) {
		return "", false
	})
	b := htmlsanitizer.ElementPolicyFunc(func(e string, _ *htmlsanitizer.AttrList) (string, bool) {
		bCalled = true
		return e, true
	})
	_, ok := htmlsanitizer.JoinElementPolicies(a, b).Apply("div", htmlsanitizer.NewAttrList(nil))
	assert.False(t, ok)
	assert.False(t, bCalled)
}

func TestRelNofollowPolicy_AddsToken(t *testing.T) {
	list := htmlsanitizer.NewAttrList([]string{"href", "http://example.com"})
	name, ok := htmlsanitizer.RelNofollowPolicy().Apply("a", list)
	assert.True(t, ok)
	assert.Equal(t, "a", name)
	v, _ := list.Value("rel")
	assert.Equal(t, "nofollow", v)
}

func TestRelNofollowPolicy_PreservesExistingRel(t *testing.T) {
	list := htmlsanitizer.NewAttrList([]string{"href", "http://example.com", "rel", "external"})
	htmlsanitizer.RelNofollowPolicy().Apply("a", list)
	v, _ := list.Value("rel")
	assert.Equal(t, "external nofollow", v)
}

func TestRelNofollowPolicy_IdempotentWhenAlreadyPresent(t *testing.T) {
	list := htmlsanitizer.NewAttrList([]string{"href", "http://example.com", "rel", "noreferrer nofollow"})
	htmlsanitizer.RelNofollowPolicy().Apply("a", list)
	v, _ := list.Value("rel")
	assert.Equal(t, "noreferrer nofollow", v)
}

func TestRelNofollowPolicy_NoopWithoutHref(t *testing.T) {
	list := htmlsanitizer.NewAttrList([]string{"title", "x"})
	htmlsanitizer.RelNofollowPolicy().Apply("a", list)
	_, ok := list.Value("rel")
	assert.False(t, ok)
}

func TestTargetBlankPolicy_SetsTargetOnlyWithHref(t *testing.T) {
	withHref := htmlsanitizer.NewAttrList([]string{"href", "http://example.com"})
	htmlsanitizer.TargetBlankPolicy().Apply("a", withHref)
	v, ok := withHref.Value("target")
	assert.True(t, ok)
	assert.Equal(t, "_blank", v)

	withoutHref := htmlsanitizer.NewAttrList([]string{"title", "x"})
	htmlsanitizer.TargetBlankPolicy().Apply("a", withoutHref)
	_, ok = withoutHref.Value("target")
	assert.False(t, ok)
}
