package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductUnmarshalAliases(t *testing.T) {
	t.Run("title and image", func(t *testing.T) {
		var p Product
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"Headphones","price":299.99,"image":"a.jpg"}`), &p))
		require.Equal(t, "Headphones", p.Name)
		require.Equal(t, "a.jpg", p.Image)
		require.Equal(t, "299.99", p.Price.String())
	})

	t.Run("name and image_url with quoted price", func(t *testing.T) {
		var p Product
		require.NoError(t, json.Unmarshal([]byte(`{"id":2,"name":"Watch","price":"199.99","image_url":"b.jpg","category":"wearables"}`), &p))
		require.Equal(t, "Watch", p.Name)
		require.Equal(t, "b.jpg", p.Image)
		require.Equal(t, "wearables", p.Category)
		require.Equal(t, "199.99", p.Price.StringFixed(2))
	})
}

func TestProductMarshalWritesNumericPrice(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"title":"Speaker","price":"89.99"}`), &p))

	b, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":3,"title":"Speaker","description":"","price":89.99,"image":""}`, string(b))
}

func TestProductValidate(t *testing.T) {
	var ok Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"x","price":0}`), &ok))
	require.NoError(t, ok.Validate())

	var neg Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"x","price":-1}`), &neg))
	require.ErrorIs(t, neg.Validate(), ErrInvalidProduct)

	require.ErrorIs(t, Product{Name: "no id"}.Validate(), ErrInvalidProduct)
}
