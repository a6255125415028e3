package extractor

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// badAncestors 菜单类区域
	badAncestors = map[atom.Atom]bool{
		atom.Nav:    true,
		atom.Footer: true,
		atom.Header: true,
		atom.Aside:  true,
	}

	// goodAncestors 正文区域
	goodAncestors = map[atom.Atom]bool{
		atom.Main:    true,
		atom.Article: true,
	}

	headingAncestors = map[atom.Atom]bool{
		atom.H1: true,
		atom.H2: true,
		atom.H3: true,
	}
)

// HasBadAncestor 祖先链中是否存在nav/footer/header/aside
func HasBadAncestor(n *html.Node) bool {
	return hasAncestor(n, badAncestors)
}

// HasGoodAncestor 祖先链中是否存在main/article
func HasGoodAncestor(n *html.Node) bool {
	return hasAncestor(n, goodAncestors)
}

// HasHeadingAncestor 祖先链中是否存在h1/h2/h3
func HasHeadingAncestor(n *html.Node) bool {
	return hasAncestor(n, headingAncestors)
}

// hasAncestor 沿Parent指针向上遍历直到根节点(Parent为nil)
// 文档树无环,不需要环检测
func hasAncestor(n *html.Node, tags map[atom.Atom]bool) bool {
	if n == nil {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if tags[tagAtom(p)] {
			return true
		}
	}
	return false
}

// tagAtom 自定义元素没有DataAtom,此时按名称查表
func tagAtom(n *html.Node) atom.Atom {
	if n.DataAtom != 0 {
		return n.DataAtom
	}
	return atom.Lookup([]byte(n.Data))
}
