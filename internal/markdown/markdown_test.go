package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTablesSingleTable(t *testing.T) {
	raw := "案例 TC-001\n\n" +
		"| 字段 | 内容 | 评分(0-10) | 建议 |\n" +
		"| --- | --- | --- | --- |\n" +
		"| 用例标题 | 登录页面加载 | 8 | 标题可更精炼 |\n" +
		"| 前置条件 | 已打开浏览器 | 9 | 无 |\n" +
		"| 步骤描述 | 输入账号密码点击登录 | 7 | 补充异常分支 |\n" +
		"| 预期结果 | 成功进入首页 | 8 | 无 |\n"

	tables := ParseTables(raw)
	require.Len(t, tables, 1)
	tbl := tables[0]
	assert.Equal(t, []string{"字段", "内容", "评分(0-10)", "建议"}, tbl.Headers)
	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, []string{"用例标题", "登录页面加载", "8", "标题可更精炼"}, tbl.Rows[0])
	assert.Equal(t, []string{"预期结果", "成功进入首页", "8", "无"}, tbl.Rows[3])
}

func TestParseTablesNoTable(t *testing.T) {
	tables := ParseTables("the model just replied in prose, no table here.")
	assert.Empty(t, tables)
}

func TestParseTablesMultipleTables(t *testing.T) {
	raw := "TC-001\n\n" +
		"| a | b |\n| --- | --- |\n| 1 | 2 |\n\n" +
		"TC-002\n\n" +
		"| a | b |\n| --- | --- |\n| 3 | 4 |\n"
	tables := ParseTables(raw)
	require.Len(t, tables, 2)
	assert.Equal(t, []string{"1", "2"}, tables[0].Rows[0])
	assert.Equal(t, []string{"3", "4"}, tables[1].Rows[0])
}
