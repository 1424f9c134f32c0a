// Package problem loads, filters and aligns typing problems.
package problem

import "github.com/verte-zerg/kanatype/internal/model"

// Category groups problems under a name.
type Category struct {
	Name     string          `toml:"name"`
	Problems []model.Problem `toml:"problem"`
}

// Builtin returns the compiled-in problem bank.
func Builtin() []Category {
	out := make([]Category, len(builtin))
	for i, c := range builtin {
		out[i] = Category{Name: c.Name, Problems: append([]model.Problem(nil), c.Problems...)}
	}
	return out
}

var builtin = []Category{
	{Name: "proverbs", Problems: []model.Problem{
		{Display: "光陰矢の如し", Kana: "こういんやのごとし"},
		{Display: "能ある鷹は爪を隠す", Kana: "のうあるたかはつめをかくす"},
		{Display: "塵も積もれば山となる", Kana: "ちりもつもればやまとなる"},
		{Display: "継続は力なり", Kana: "けいぞくはちからなり"},
		{Display: "石の上にも三年", Kana: "いしのうえにもさんねん"},
		{Display: "青は藍より出でて藍より青し", Kana: "あおはあいよりいでてあいよりあおし"},
		{Display: "明日は明日の風が吹く", Kana: "あしたはあしたのかぜがふく"},
	}},
	{Name: "sentences", Problems: []model.Problem{
		{Display: "タイピングは正確さと速さが重要です。", Kana: "たいぴんぐはせいかくさとはやさがじゅうようです。"},
		{Display: "今日の天気は晴れ、絶好の洗濯日和です！", Kana: "きょうのてんきははれ、ぜっこうのせんたくびよりです！"},
		{Display: "このプロジェクトの成功を心から願っています。", Kana: "このぷろじぇくとのせいこうをこころからねがっています。"},
		{Display: "「こんにちは！」と彼は言った。", Kana: "「こんにちは！」とかれはいった。"},
		{Display: "これは本当に正しいのでしょうか？", Kana: "これはほんとうにただしいのでしょうか？"},
		{Display: "メールアドレスは example@example.com です。", Kana: "めーるあどれすは example@example.com です。"},
	}},
	{Name: "words", Problems: []model.Problem{
		{Display: "寿司", Kana: "すし"},
		{Display: "日本", Kana: "にっぽん"},
		{Display: "桜", Kana: "さくら"},
		{Display: "切符", Kana: "きっぷ"},
		{Display: "権威", Kana: "けんい"},
		{Display: "ゲーム", Kana: "げーむ"},
		{Display: "インターネット", Kana: "いんたーねっと"},
		{Display: "新幹線", Kana: "しんかんせん"},
	}},
	{Name: "symbols", Problems: []model.Problem{
		{Display: "ABCDEFG", Kana: "ABCDEFG"},
		{Display: "1234567890", Kana: "1234567890"},
		{Display: "ＨＥＬＬＯ　ＷＯＲＬＤ！", Kana: "ＨＥＬＬＯ　ＷＯＲＬＤ！"},
		{Display: "１２３＋４５６＝５７９", Kana: "１２３＋４５６＝５７９"},
		{Display: "価格は$1,000です。", Kana: "かかくは$1,000です。"},
	}},
}
