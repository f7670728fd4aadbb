package mcfg

import (
	. "testing"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/stretchr/testify/assert"
)

func TestPopulateParams(t *T) {
	{
		cmp := new(mcmp.Component)
		a := Int(cmp, "a", 0, "")
		cmpChild := cmp.Child("foo")
		b := Int(cmpChild, "b", 0, "")
		c := Int(cmpChild, "c", 0, "")

		err := Populate(cmp, &SourceCLI{
			Args: []string{"--a=1", "--foo-b=2"},
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, *a)
		assert.Equal(t, 2, *b)
		assert.Equal(t, 0, *c)
	}

	{ // test that required params are enforced
		cmp := new(mcmp.Component)
		a := Int(cmp, "a", 0, "")
		cmpChild := cmp.Child("foo")
		b := Int(cmpChild, "b", 0, "")
		c := RequiredInt(cmpChild, "c", "")

		err := Populate(cmp, &SourceCLI{
			Args: []string{"--a=1", "--foo-b=2"},
		})
		assert.Error(t, err)

		err = Populate(cmp, &SourceCLI{
			Args: []string{"--a=1", "--foo-b=2", "--foo-c=3"},
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, *a)
		assert.Equal(t, 2, *b)
		assert.Equal(t, 3, *c)
	}
}
