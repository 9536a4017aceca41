package trend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisLabelInterval(t *testing.T) {
	assert.Equal(t, "0", axisLabelInterval(1))
	assert.Equal(t, "0", axisLabelInterval(29))
	assert.NotEqual(t, "0", axisLabelInterval(30))
	assert.NotEqual(t, "0", axisLabelInterval(365))
}

func fixtureAggregate(n int) Aggregate {
	dates := make([]string, n)
	buckets := make(map[string]DateBucket, n)
	for i := 0; i < n; i++ {
		d := fmt.Sprintf("2025-%02d-%02d", (i/28)%12+1, i%28+1)
		dates[i] = d
		buckets[d] = DateBucket{Total: 1, PriorityCounts: map[string]int{}, StatusCounts: map[string]int{}}
	}
	return Aggregate{Dates: dates, Buckets: buckets, Kept: n}
}

func TestBuildHTMLThinsDenseDateRanges(t *testing.T) {
	sparse, err := buildHTML(fixtureAggregate(10), ChartKindLabel("story"), ChartKindCount)
	require.NoError(t, err)
	assert.Contains(t, sparse, `"interval":"0"`)

	dense, err := buildHTML(fixtureAggregate(365), ChartKindLabel("story"), ChartKindCount)
	require.NoError(t, err)
	assert.NotContains(t, dense, `"interval":"0"`)
	assert.True(t, strings.Contains(dense, `"interval":"`))
}
