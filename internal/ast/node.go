package ast

type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() NodeType
	String() string

	// Metadata support for debugging and compilation tracking
	GetMetadata() *Metadata
	SetMetadata(*Metadata)
}

// meta is embedded in every node to carry its metadata.
type meta struct {
	metadata *Metadata
}

func (m *meta) GetMetadata() *Metadata   { return m.metadata }
func (m *meta) SetMetadata(md *Metadata) { m.metadata = md }

func (bci *BadContractItem) NodePos() Position       { return bci.Bad.Pos }
func (bci *BadContractItem) NodeEndPos() Position    { return bci.Bad.EndPos }
func (*BadContractItem) NodeType() NodeType          { return BAD_CONTRACT_ITEM }
func (bci *BadContractItem) GetMetadata() *Metadata  { return bci.Bad.metadata }
func (bci *BadContractItem) SetMetadata(m *Metadata) { bci.Bad.metadata = m }

func (be *BadExpr) NodePos() Position       { return be.Bad.Pos }
func (be *BadExpr) NodeEndPos() Position    { return be.Bad.EndPos }
func (*BadExpr) NodeType() NodeType         { return BAD_EXPR }
func (be *BadExpr) GetMetadata() *Metadata  { return be.Bad.metadata }
func (be *BadExpr) SetMetadata(m *Metadata) { be.Bad.metadata = m }

func (c *Contract) NodePos() Position    { return c.Pos }
func (c *Contract) NodeEndPos() Position { return c.EndPos }
func (*Contract) NodeType() NodeType     { return CONTRACT }

func (i *Ident) NodePos() Position    { return i.Pos }
func (i *Ident) NodeEndPos() Position { return i.EndPos }
func (*Ident) NodeType() NodeType     { return IDENT }

func (dc *DocComment) NodePos() Position    { return dc.Pos }
func (dc *DocComment) NodeEndPos() Position { return dc.EndPos }
func (*DocComment) NodeType() NodeType      { return DOC_COMMENT }

func (c *Comment) NodePos() Position    { return c.Pos }
func (c *Comment) NodeEndPos() Position { return c.EndPos }
func (*Comment) NodeType() NodeType     { return COMMENT }

func (a *Attribute) NodePos() Position    { return a.Pos }
func (a *Attribute) NodeEndPos() Position { return a.EndPos }
func (*Attribute) NodeType() NodeType     { return ATTRIBUTE }

func (u *Use) NodePos() Position    { return u.Pos }
func (u *Use) NodeEndPos() Position { return u.EndPos }
func (*Use) NodeType() NodeType     { return USE }

func (cd *ConstDecl) NodePos() Position    { return cd.Pos }
func (cd *ConstDecl) NodeEndPos() Position { return cd.EndPos }
func (*ConstDecl) NodeType() NodeType      { return CONST_DECL }

func (s *Struct) NodePos() Position    { return s.Pos }
func (s *Struct) NodeEndPos() Position { return s.EndPos }
func (*Struct) NodeType() NodeType     { return STRUCT }

func (sf *StructField) NodePos() Position    { return sf.Pos }
func (sf *StructField) NodeEndPos() Position { return sf.EndPos }
func (*StructField) NodeType() NodeType      { return STRUCT_FIELD }

func (t *VariableType) NodePos() Position    { return t.Pos }
func (t *VariableType) NodeEndPos() Position { return t.EndPos }
func (*VariableType) NodeType() NodeType     { return TYPE }

func (f *Function) NodePos() Position    { return f.Pos }
func (f *Function) NodeEndPos() Position { return f.EndPos }
func (*Function) NodeType() NodeType     { return FUNCTION }

func (fp *FunctionParam) NodePos() Position    { return fp.Pos }
func (fp *FunctionParam) NodeEndPos() Position { return fp.EndPos }
func (*FunctionParam) NodeType() NodeType      { return FUNCTION_PARAM }

func (fb *FunctionBlock) NodePos() Position    { return fb.Pos }
func (fb *FunctionBlock) NodeEndPos() Position { return fb.EndPos }
func (*FunctionBlock) NodeType() NodeType      { return FUNCTION_BLOCK }

func (es *ExprStmt) NodePos() Position    { return es.Pos }
func (es *ExprStmt) NodeEndPos() Position { return es.EndPos }
func (*ExprStmt) NodeType() NodeType      { return EXPR_STMT }

func (rs *ReturnStmt) NodePos() Position    { return rs.Pos }
func (rs *ReturnStmt) NodeEndPos() Position { return rs.EndPos }
func (*ReturnStmt) NodeType() NodeType      { return RETURN_STMT }

func (ls *LetStmt) NodePos() Position    { return ls.Pos }
func (ls *LetStmt) NodeEndPos() Position { return ls.EndPos }
func (*LetStmt) NodeType() NodeType      { return LET_STMT }

func (as *AssignStmt) NodePos() Position    { return as.Pos }
func (as *AssignStmt) NodeEndPos() Position { return as.EndPos }
func (*AssignStmt) NodeType() NodeType      { return ASSIGN_STMT }

func (as *AssertStmt) NodePos() Position    { return as.Pos }
func (as *AssertStmt) NodeEndPos() Position { return as.EndPos }
func (*AssertStmt) NodeType() NodeType      { return ASSERT_STMT }

func (is *IfStmt) NodePos() Position    { return is.Pos }
func (is *IfStmt) NodeEndPos() Position { return is.EndPos }
func (*IfStmt) NodeType() NodeType      { return IF_STMT }

func (fs *ForStmt) NodePos() Position    { return fs.Pos }
func (fs *ForStmt) NodeEndPos() Position { return fs.EndPos }
func (*ForStmt) NodeType() NodeType      { return FOR_STMT }

func (bs *BreakStmt) NodePos() Position    { return bs.Pos }
func (bs *BreakStmt) NodeEndPos() Position { return bs.EndPos }
func (*BreakStmt) NodeType() NodeType      { return BREAK_STMT }

func (cs *ContinueStmt) NodePos() Position    { return cs.Pos }
func (cs *ContinueStmt) NodeEndPos() Position { return cs.EndPos }
func (*ContinueStmt) NodeType() NodeType      { return CONTINUE_STMT }

func (be *BinaryExpr) NodePos() Position    { return be.Pos }
func (be *BinaryExpr) NodeEndPos() Position { return be.EndPos }
func (*BinaryExpr) NodeType() NodeType      { return BINARY_EXPR }

func (ue *UnaryExpr) NodePos() Position    { return ue.Pos }
func (ue *UnaryExpr) NodeEndPos() Position { return ue.EndPos }
func (*UnaryExpr) NodeType() NodeType      { return UNARY_EXPR }

func (ce *CallExpr) NodePos() Position    { return ce.Pos }
func (ce *CallExpr) NodeEndPos() Position { return ce.EndPos }
func (*CallExpr) NodeType() NodeType      { return CALL_EXPR }

func (fa *FieldAccessExpr) NodePos() Position    { return fa.Pos }
func (fa *FieldAccessExpr) NodeEndPos() Position { return fa.EndPos }
func (*FieldAccessExpr) NodeType() NodeType      { return FIELD_ACCESS_EXPR }

func (ie *IndexExpr) NodePos() Position    { return ie.Pos }
func (ie *IndexExpr) NodeEndPos() Position { return ie.EndPos }
func (*IndexExpr) NodeType() NodeType      { return INDEX_EXPR }

func (sl *StructLiteralExpr) NodePos() Position    { return sl.Pos }
func (sl *StructLiteralExpr) NodeEndPos() Position { return sl.EndPos }
func (*StructLiteralExpr) NodeType() NodeType      { return STRUCT_LITERAL_EXPR }

func (le *LiteralExpr) NodePos() Position    { return le.Pos }
func (le *LiteralExpr) NodeEndPos() Position { return le.EndPos }
func (*LiteralExpr) NodeType() NodeType      { return LITERAL_EXPR }

func (ie *IdentExpr) NodePos() Position    { return ie.Pos }
func (ie *IdentExpr) NodeEndPos() Position { return ie.EndPos }
func (*IdentExpr) NodeType() NodeType      { return IDENT_EXPR }

func (cp *CalleePath) NodePos() Position    { return cp.Pos }
func (cp *CalleePath) NodeEndPos() Position { return cp.EndPos }
func (*CalleePath) NodeType() NodeType      { return CALLEE_PATH }

func (sf *StructLiteralField) NodePos() Position    { return sf.Pos }
func (sf *StructLiteralField) NodeEndPos() Position { return sf.EndPos }
func (*StructLiteralField) NodeType() NodeType      { return STRUCT_LITERAL_FIELD }

func (pe *ParenExpr) NodePos() Position    { return pe.Pos }
func (pe *ParenExpr) NodeEndPos() Position { return pe.EndPos }
func (*ParenExpr) NodeType() NodeType      { return PAREN_EXPR }

func (te *TupleExpr) NodePos() Position    { return te.Pos }
func (te *TupleExpr) NodeEndPos() Position { return te.EndPos }
func (*TupleExpr) NodeType() NodeType      { return TUPLE_EXPR }

func (le *ListExpr) NodePos() Position    { return le.Pos }
func (le *ListExpr) NodeEndPos() Position { return le.EndPos }
func (*ListExpr) NodeType() NodeType      { return LIST_EXPR }

func (ie *IfExpr) NodePos() Position    { return ie.Pos }
func (ie *IfExpr) NodeEndPos() Position { return ie.EndPos }
func (*IfExpr) NodeType() NodeType      { return IF_EXPR }
