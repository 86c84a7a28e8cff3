package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsoffoods/foodchain/internal/codec"
)

func fieldNumbers(t *testing.T, data []byte) []int {
	t.Helper()
	var numbers []int
	r := codec.NewReader(data)
	for r.More() {
		f, err := r.Next()
		require.NoError(t, err)
		numbers = append(numbers, f.Number)
	}
	return numbers
}

func registryNumbers(s Schema) []int {
	numbers := make([]int, 0, len(s.Fields))
	for _, f := range s.Fields {
		numbers = append(numbers, f.FieldNumber)
	}
	return numbers
}

// The encoders must emit exactly the fields the registry declares, in field
// number order.
func TestEncodersMatchRegistry(t *testing.T) {
	food := FoodOrderAsset{
		Items:            "[]",
		Price:            1,
		RestaurantData:   "d",
		RestaurantNonce:  "n",
		RecipientAddress: []byte{0x01},
	}
	assert.Equal(t, registryNumbers(FoodOrderSchema), fieldNumbers(t, food.Encode()))

	list := ListAsset{Items: "[]", RecipientAddress: []byte{0x01}}
	assert.Equal(t, registryNumbers(MenuSchema), fieldNumbers(t, list.Encode()))
	assert.Equal(t, registryNumbers(NewsSchema), fieldNumbers(t, list.Encode()))

	profile := ProfileAsset{
		Name:             "n",
		ClientData:       "d",
		ClientNonce:      "c",
		RecipientAddress: []byte{0x01},
	}
	assert.Equal(t, registryNumbers(ProfileSchema), fieldNumbers(t, profile.Encode()))
}

func TestRegistryIDsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range []Schema{FoodOrderSchema, MenuSchema, NewsSchema, ProfileSchema} {
		require.NotEmpty(t, s.ID)
		assert.False(t, seen[s.ID], "duplicate schema id %s", s.ID)
		seen[s.ID] = true
	}
}
